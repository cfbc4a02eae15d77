package entities

import "time"

type Stage string

const (
	StageAwaitingTitle       Stage = "awaiting_title"
	StageAwaitingDescription Stage = "awaiting_description"
	StageAwaitingMedia       Stage = "awaiting_media"
	StageAwaitingCandidates  Stage = "awaiting_candidates"
)

// Draft is one author's in-progress survey. It never touches survey storage
// until the candidates stage is finished.
type Draft struct {
	AuthorID       string
	Stage          Stage
	Title          string
	Description    string
	MediaRef       string
	CandidateNames []string
	StartedAt      time.Time
	UpdatedAt      time.Time
}

type InputKind string

const (
	InputText   InputKind = "text"
	InputMedia  InputKind = "media"
	InputSkip   InputKind = "skip"
	InputDone   InputKind = "done"
	InputCancel InputKind = "cancel"
)

// Input is one author message in the dialog. Value carries the text or the
// media reference depending on Kind.
type Input struct {
	Kind  InputKind
	Value string
}

// Prompt tells the caller what the dialog expects next.
type Prompt struct {
	Stage     Stage
	Committed bool
	Cancelled bool
	SurveyID  string
}
