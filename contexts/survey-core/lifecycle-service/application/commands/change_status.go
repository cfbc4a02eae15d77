package commands

import (
	"context"
	"log/slog"
	"strings"

	application "saylov/contexts/survey-core/lifecycle-service/application"
	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"
)

type StatusAction string

const (
	StatusActionClose  StatusAction = "close"
	StatusActionRetire StatusAction = "retire"
)

type ChangeStatusCommand struct {
	SurveyID string
	ActorID  string
	Action   StatusAction
}

type ChangeStatusUseCase struct {
	Surveys    ports.SurveyRepository
	Authorizer ports.Authorizer
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute drives the survey state machine. Close is idempotent on already
// closed surveys and rejected on retired ones; retire is idempotent from any
// state and terminal. The write is a compare-and-swap on the current status:
// a failed swap means a concurrent transition won, so the loop re-reads and
// re-evaluates against the fresh state. Statuses only move forward, so the
// loop settles within two rounds.
func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (entities.Survey, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(cmd.ActorID)) {
		return entities.Survey{}, domainerrors.ErrNotAuthorized
	}
	surveyID := strings.TrimSpace(cmd.SurveyID)

	for {
		survey, err := uc.Surveys.GetSurvey(ctx, surveyID)
		if err != nil {
			return entities.Survey{}, err
		}

		now := uc.Clock.Now().UTC()
		from := survey.Status
		switch cmd.Action {
		case StatusActionClose:
			switch survey.Status {
			case entities.SurveyStatusActive:
				survey.Status = entities.SurveyStatusClosed
				survey.ClosedAt = &now
			case entities.SurveyStatusClosed:
				return survey, nil
			default:
				return entities.Survey{}, domainerrors.ErrInvalidTransition
			}
		case StatusActionRetire:
			if survey.Status == entities.SurveyStatusRetired {
				return survey, nil
			}
			survey.Status = entities.SurveyStatusRetired
		default:
			return entities.Survey{}, domainerrors.ErrInvalidTransition
		}

		survey.UpdatedAt = now
		swapped, err := uc.Surveys.TransitionSurvey(ctx, survey, from)
		if err != nil {
			return entities.Survey{}, err
		}
		if !swapped {
			continue
		}

		logger.Info("survey state changed",
			"event", "lifecycle_survey_state_changed",
			"module", "survey-core/lifecycle-service",
			"layer", "application",
			"survey_id", survey.SurveyID,
			"from_status", string(from),
			"to_status", string(survey.Status),
		)
		return survey, nil
	}
}
