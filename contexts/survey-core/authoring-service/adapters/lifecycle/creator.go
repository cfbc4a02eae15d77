package lifecycle

import (
	"context"

	lifecyclecommands "saylov/contexts/survey-core/lifecycle-service/application/commands"

	"saylov/contexts/survey-core/authoring-service/domain/entities"
	"saylov/contexts/survey-core/authoring-service/ports"
)

// Creator commits finished drafts through the lifecycle service's create
// use case, keeping survey validation in one place.
type Creator struct {
	UseCase lifecyclecommands.CreateSurveyUseCase
}

func (c Creator) CreateSurvey(ctx context.Context, draft entities.Draft) (string, error) {
	detail, err := c.UseCase.Execute(ctx, lifecyclecommands.CreateSurveyCommand{
		ActorID:        draft.AuthorID,
		Title:          draft.Title,
		Description:    draft.Description,
		MediaRef:       draft.MediaRef,
		CandidateNames: draft.CandidateNames,
	})
	if err != nil {
		return "", err
	}
	return detail.Survey.SurveyID, nil
}

var _ ports.SurveyCreator = Creator{}
