package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterParticipantRequest struct {
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
}

type ParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	PhoneNumber   string `json:"phone_number"`
	FullName      string `json:"full_name"`
	JoinedAt      string `json:"joined_at"`
}

type RegisterVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type RequiredChannelResponse struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	JoinURL   string `json:"join_url"`
}

type VoteResponse struct {
	Accepted        bool                      `json:"accepted"`
	SurveyID        string                    `json:"survey_id"`
	CandidateID     string                    `json:"candidate_id,omitempty"`
	MissingChannels []RequiredChannelResponse `json:"missing_channels,omitempty"`
}

type AccessResponse struct {
	Granted         bool                      `json:"granted"`
	MissingChannels []RequiredChannelResponse `json:"missing_channels"`
}

type HasVotedResponse struct {
	SurveyID string `json:"survey_id"`
	Voted    bool   `json:"voted"`
}

type StandingResponse struct {
	CandidateID string  `json:"candidate_id"`
	FullName    string  `json:"full_name"`
	VoteCount   int     `json:"vote_count"`
	Percent     float64 `json:"percent"`
}

type StandingsResponse struct {
	SurveyID   string             `json:"survey_id"`
	TotalVotes int                `json:"total_votes"`
	Standings  []StandingResponse `json:"standings"`
}

type ParticipationRowResponse struct {
	ParticipantID string `json:"participant_id"`
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	Voted         bool   `json:"voted"`
	CandidateID   string `json:"candidate_id,omitempty"`
	CandidateName string `json:"candidate_name,omitempty"`
}

type ParticipationReportResponse struct {
	SurveyID string                     `json:"survey_id"`
	Rows     []ParticipationRowResponse `json:"rows"`
}
