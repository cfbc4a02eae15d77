package ports

import (
	"context"
	"time"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
)

type VoteRepository interface {
	// InsertVote appends the vote and increments the candidate tally as one
	// atomic unit. A second vote for the same (participant, survey) pair
	// fails with ErrDuplicateVote and leaves tallies untouched.
	InsertVote(ctx context.Context, vote entities.Vote) error
	HasVoted(ctx context.Context, participantID string, surveyID string) (bool, error)
	ListVotesBySurvey(ctx context.Context, surveyID string) ([]entities.Vote, error)
}

type ParticipantRepository interface {
	SaveParticipant(ctx context.Context, participant entities.Participant) error
	GetParticipant(ctx context.Context, participantID string) (entities.Participant, bool, error)
	ListParticipants(ctx context.Context) ([]entities.Participant, error)
}

type SurveyProjection struct {
	SurveyID string
	Title    string
	Status   string
}

type CandidateProjection struct {
	CandidateID string
	SurveyID    string
	FullName    string
	Position    int
	VoteCount   int
}

// SurveyReader is the voting engine's read view over lifecycle-owned data.
type SurveyReader interface {
	GetSurvey(ctx context.Context, surveyID string) (SurveyProjection, error)
	ListCandidates(ctx context.Context, surveyID string) ([]CandidateProjection, error)
	ListRequiredChannels(ctx context.Context, surveyID string) ([]entities.RequiredChannel, error)
}

// MembershipOracle answers whether a participant belongs to an external
// channel. Failures mean "unknown", never "denied"; the gate decides policy.
type MembershipOracle interface {
	ChatMember(ctx context.Context, platformRef string, participantID string) (entities.MembershipStatus, error)
}

type Clock interface {
	Now() time.Time
}
