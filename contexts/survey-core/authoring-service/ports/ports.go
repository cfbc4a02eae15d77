package ports

import (
	"context"
	"time"

	"saylov/contexts/survey-core/authoring-service/domain/entities"
)

type DraftStore interface {
	SaveDraft(ctx context.Context, draft entities.Draft) error
	GetDraft(ctx context.Context, authorID string) (entities.Draft, bool, error)
	DeleteDraft(ctx context.Context, authorID string) error
}

// SurveyCreator hands a finished draft to the survey lifecycle.
type SurveyCreator interface {
	CreateSurvey(ctx context.Context, draft entities.Draft) (surveyID string, err error)
}

type Authorizer interface {
	IsAuthor(actorID string) bool
}

type Clock interface {
	Now() time.Time
}
