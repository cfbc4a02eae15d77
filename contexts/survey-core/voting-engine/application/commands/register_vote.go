package commands

import (
	"context"
	"log/slog"
	"strings"

	"saylov/contexts/survey-core/voting-engine/application"
	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

type RegisterVoteCommand struct {
	ParticipantID string
	SurveyID      string
	CandidateID   string
}

type RegisterVoteUseCase struct {
	Votes        ports.VoteRepository
	Participants ports.ParticipantRepository
	Surveys      ports.SurveyReader
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute runs the ledger checks in order: the participant must be known,
// the survey must be accepting votes, and the candidate must belong to the
// survey. Uniqueness of the (participant, survey) pair is left to storage so
// that concurrent attempts are arbitrated in exactly one place.
func (uc RegisterVoteUseCase) Execute(ctx context.Context, cmd RegisterVoteCommand) (entities.Vote, error) {
	logger := application.ResolveLogger(uc.Logger)

	participantID := strings.TrimSpace(cmd.ParticipantID)
	surveyID := strings.TrimSpace(cmd.SurveyID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if participantID == "" || surveyID == "" || candidateID == "" {
		return entities.Vote{}, domainerrors.ErrInvalidVoteInput
	}

	_, found, err := uc.Participants.GetParticipant(ctx, participantID)
	if err != nil {
		return entities.Vote{}, err
	}
	if !found {
		return entities.Vote{}, domainerrors.ErrParticipantNotRegistered
	}

	survey, err := uc.Surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return entities.Vote{}, err
	}
	if survey.Status != "active" {
		return entities.Vote{}, domainerrors.ErrSurveyClosed
	}

	candidates, err := uc.Surveys.ListCandidates(ctx, surveyID)
	if err != nil {
		return entities.Vote{}, err
	}
	belongs := false
	for _, candidate := range candidates {
		if candidate.CandidateID == candidateID {
			belongs = true
			break
		}
	}
	if !belongs {
		return entities.Vote{}, domainerrors.ErrUnknownCandidate
	}

	vote := entities.Vote{
		ParticipantID: participantID,
		SurveyID:      surveyID,
		CandidateID:   candidateID,
		CreatedAt:     uc.Clock.Now(),
	}
	if err := uc.Votes.InsertVote(ctx, vote); err != nil {
		return entities.Vote{}, err
	}

	logger.Info("vote registered",
		slog.String("event", "voting_vote_registered"),
		slog.String("module", "voting-engine"),
		slog.String("layer", "application"),
		slog.String("survey_id", surveyID),
		slog.String("candidate_id", candidateID),
	)
	return vote, nil
}
