package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSurveyRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	MediaRef       string   `json:"media_ref,omitempty"`
	Deadline       string   `json:"deadline,omitempty"`
	CandidateNames []string `json:"candidate_names"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	FullName    string `json:"full_name"`
	VoteCount   int    `json:"vote_count"`
	Position    int    `json:"position"`
}

type SurveyResponse struct {
	SurveyID    string              `json:"survey_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	MediaRef    string              `json:"media_ref,omitempty"`
	Status      string              `json:"status"`
	Deadline    string              `json:"deadline,omitempty"`
	Candidates  []CandidateResponse `json:"candidates,omitempty"`
}

type SurveyListResponse struct {
	Items []SurveyResponse `json:"items"`
}

type AddCandidateRequest struct {
	FullName string `json:"full_name"`
}

type RegisterChannelRequest struct {
	PlatformRef string `json:"platform_ref"`
	Name        string `json:"name"`
	JoinURL     string `json:"join_url,omitempty"`
}

type ChannelResponse struct {
	ChannelID   string `json:"channel_id"`
	PlatformRef string `json:"platform_ref"`
	Name        string `json:"name"`
	JoinURL     string `json:"join_url,omitempty"`
}

type ChannelListResponse struct {
	Items []ChannelResponse `json:"items"`
}

type ChannelLinkResponse struct {
	SurveyID  string `json:"survey_id"`
	ChannelID string `json:"channel_id"`
	Linked    bool   `json:"linked"`
}

type PublicationEntryResponse struct {
	CandidateID string  `json:"candidate_id"`
	FullName    string  `json:"full_name"`
	VoteCount   int     `json:"vote_count"`
	Percent     float64 `json:"percent"`
	Rank        int     `json:"rank"`
}

type PublicationResponse struct {
	Kind        string                     `json:"kind"`
	SurveyID    string                     `json:"survey_id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	MediaRef    string                     `json:"media_ref,omitempty"`
	TotalVotes  int                        `json:"total_votes"`
	Entries     []PublicationEntryResponse `json:"entries"`
}
