package entities

import "time"

type SurveyStatus string

const (
	SurveyStatusActive  SurveyStatus = "active"
	SurveyStatusClosed  SurveyStatus = "closed"
	SurveyStatusRetired SurveyStatus = "retired"
)

type Survey struct {
	SurveyID    string
	Title       string
	Description string
	MediaRef    string
	Status      SurveyStatus
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// Votable reports whether new votes may be accepted.
func (s Survey) Votable() bool {
	return s.Status == SurveyStatusActive
}

// Listed reports whether the survey appears on participant-facing surfaces.
// Closed surveys stay listed for "see results" flows; retired ones are hidden.
func (s Survey) Listed() bool {
	return s.Status == SurveyStatusActive || s.Status == SurveyStatusClosed
}

type Candidate struct {
	CandidateID string
	SurveyID    string
	FullName    string
	VoteCount   int
	Position    int
	CreatedAt   time.Time
}

type Channel struct {
	ChannelID   string
	PlatformRef string
	Name        string
	JoinURL     string
	CreatedAt   time.Time
}

type ChannelRequirement struct {
	SurveyID  string
	ChannelID string
	CreatedAt time.Time
}

type SurveyDetail struct {
	Survey     Survey
	Candidates []Candidate
}

// PublicationKind is the explicit posting intent carried through outbound
// flows. The two variants render differently: a survey post carries vote
// buttons, a results post carries the final standings.
type PublicationKind string

const (
	PublicationKindSurvey  PublicationKind = "publish_survey"
	PublicationKindResults PublicationKind = "publish_results"
)

type PublicationEntry struct {
	CandidateID string
	FullName    string
	VoteCount   int
	Percent     float64
	Rank        int
}

type Publication struct {
	Kind        PublicationKind
	SurveyID    string
	Title       string
	Description string
	MediaRef    string
	TotalVotes  int
	Entries     []PublicationEntry
}
