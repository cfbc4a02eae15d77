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

type AddCandidateCommand struct {
	ActorID  string
	SurveyID string
	FullName string
}

type AddCandidateUseCase struct {
	Surveys    ports.SurveyRepository
	Authorizer ports.Authorizer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute appends a candidate to a survey that has not left the active
// state. Candidates on closed or retired surveys are immutable.
func (uc AddCandidateUseCase) Execute(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(cmd.ActorID)) {
		return entities.Candidate{}, domainerrors.ErrNotAuthorized
	}
	fullName := strings.TrimSpace(cmd.FullName)
	if fullName == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidSurveyInput
	}

	survey, err := uc.Surveys.GetSurvey(ctx, strings.TrimSpace(cmd.SurveyID))
	if err != nil {
		return entities.Candidate{}, err
	}
	if survey.Status != entities.SurveyStatusActive {
		return entities.Candidate{}, domainerrors.ErrInvalidTransition
	}

	existing, err := uc.Surveys.ListCandidates(ctx, survey.SurveyID)
	if err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		SurveyID:    survey.SurveyID,
		FullName:    fullName,
		VoteCount:   0,
		Position:    len(existing),
		CreatedAt:   uc.Clock.Now().UTC(),
	}
	if err := uc.Surveys.AddCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate added",
		"event", "lifecycle_candidate_added",
		"module", "survey-core/lifecycle-service",
		"layer", "application",
		"survey_id", survey.SurveyID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}
