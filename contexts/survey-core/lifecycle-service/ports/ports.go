package ports

import (
	"context"
	"time"

	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
)

type SurveyRepository interface {
	// CreateSurvey persists the survey and its candidates as one atomic unit.
	CreateSurvey(ctx context.Context, survey entities.Survey, candidates []entities.Candidate) error
	GetSurvey(ctx context.Context, surveyID string) (entities.Survey, error)
	// TransitionSurvey writes the survey only while its stored status still
	// equals from. A false result means another writer moved the survey
	// first; the caller re-reads and re-evaluates.
	TransitionSurvey(ctx context.Context, survey entities.Survey, from entities.SurveyStatus) (bool, error)
	// ListSurveys returns surveys in creation order, retired ones excluded
	// unless includeRetired is set.
	ListSurveys(ctx context.Context, includeRetired bool) ([]entities.Survey, error)
	AddCandidate(ctx context.Context, candidate entities.Candidate) error
	// ListCandidates returns candidates in insertion order.
	ListCandidates(ctx context.Context, surveyID string) ([]entities.Candidate, error)
}

type ChannelRepository interface {
	CreateChannel(ctx context.Context, channel entities.Channel) error
	GetChannel(ctx context.Context, channelID string) (entities.Channel, error)
	GetChannelByPlatformRef(ctx context.Context, platformRef string) (entities.Channel, bool, error)
	DeleteChannel(ctx context.Context, channelID string) error
	ListChannels(ctx context.Context) ([]entities.Channel, error)
	IsChannelLinked(ctx context.Context, surveyID string, channelID string) (bool, error)
	LinkChannel(ctx context.Context, requirement entities.ChannelRequirement) error
	UnlinkChannel(ctx context.Context, surveyID string, channelID string) error
	ListRequiredChannels(ctx context.Context, surveyID string) ([]entities.Channel, error)
}

// Authorizer answers whether an actor may manage surveys. The default
// implementation compares against the single configured operator id; swapping
// it for a role lookup enables multi-operator setups without touching the
// use cases.
type Authorizer interface {
	IsAuthor(actorID string) bool
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
