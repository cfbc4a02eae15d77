package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "saylov/contexts/survey-core/lifecycle-service/application"
	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"
)

// CreateSurveyCommand is the write-model input for survey creation.
type CreateSurveyCommand struct {
	ActorID        string
	Title          string
	Description    string
	MediaRef       string
	Deadline       *time.Time
	CandidateNames []string
}

type CreateSurveyUseCase struct {
	Surveys    ports.SurveyRepository
	Authorizer ports.Authorizer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute creates the survey and its candidates atomically. The survey is
// born active; no partial creation is observable to readers.
func (uc CreateSurveyUseCase) Execute(ctx context.Context, cmd CreateSurveyCommand) (entities.SurveyDetail, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(cmd.ActorID)) {
		logger.Warn("survey create rejected for non-author",
			"event", "lifecycle_survey_create_unauthorized",
			"module", "survey-core/lifecycle-service",
			"layer", "application",
			"actor_id", strings.TrimSpace(cmd.ActorID),
		)
		return entities.SurveyDetail{}, domainerrors.ErrNotAuthorized
	}

	title := strings.TrimSpace(cmd.Title)
	description := strings.TrimSpace(cmd.Description)
	if title == "" || description == "" {
		return entities.SurveyDetail{}, domainerrors.ErrInvalidSurveyInput
	}

	names := make([]string, 0, len(cmd.CandidateNames))
	for _, name := range cmd.CandidateNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return entities.SurveyDetail{}, domainerrors.ErrInvalidSurveyInput
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return entities.SurveyDetail{}, domainerrors.ErrEmptyCandidateList
	}

	now := uc.Clock.Now().UTC()
	surveyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.SurveyDetail{}, err
	}
	survey := entities.Survey{
		SurveyID:    surveyID,
		Title:       title,
		Description: description,
		MediaRef:    strings.TrimSpace(cmd.MediaRef),
		Status:      entities.SurveyStatusActive,
		Deadline:    cmd.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	candidates := make([]entities.Candidate, 0, len(names))
	for position, name := range names {
		candidateID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.SurveyDetail{}, err
		}
		candidates = append(candidates, entities.Candidate{
			CandidateID: candidateID,
			SurveyID:    surveyID,
			FullName:    name,
			VoteCount:   0,
			Position:    position,
			CreatedAt:   now,
		})
	}

	if err := uc.Surveys.CreateSurvey(ctx, survey, candidates); err != nil {
		return entities.SurveyDetail{}, err
	}

	logger.Info("survey created",
		"event", "lifecycle_survey_created",
		"module", "survey-core/lifecycle-service",
		"layer", "application",
		"survey_id", surveyID,
		"candidate_count", len(candidates),
	)
	return entities.SurveyDetail{Survey: survey, Candidates: candidates}, nil
}
