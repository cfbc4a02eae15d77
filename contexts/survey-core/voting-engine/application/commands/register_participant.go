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

type RegisterParticipantCommand struct {
	ParticipantID string
	PhoneNumber   string
	FullName      string
}

type RegisterParticipantUseCase struct {
	Participants ports.ParticipantRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute registers or refreshes a participant. Re-registering the same
// participant overwrites the contact details and keeps the original join time.
func (uc RegisterParticipantUseCase) Execute(ctx context.Context, cmd RegisterParticipantCommand) (entities.Participant, error) {
	logger := application.ResolveLogger(uc.Logger)

	participantID := strings.TrimSpace(cmd.ParticipantID)
	phone := strings.TrimSpace(cmd.PhoneNumber)
	fullName := strings.TrimSpace(cmd.FullName)
	if participantID == "" || phone == "" {
		return entities.Participant{}, domainerrors.ErrInvalidParticipantInput
	}

	participant := entities.Participant{
		ParticipantID: participantID,
		PhoneNumber:   phone,
		FullName:      fullName,
		JoinedAt:      uc.Clock.Now(),
	}
	if existing, found, err := uc.Participants.GetParticipant(ctx, participantID); err != nil {
		return entities.Participant{}, err
	} else if found {
		participant.JoinedAt = existing.JoinedAt
	}

	if err := uc.Participants.SaveParticipant(ctx, participant); err != nil {
		return entities.Participant{}, err
	}

	logger.Info("participant registered",
		slog.String("event", "voting_participant_registered"),
		slog.String("module", "voting-engine"),
		slog.String("layer", "application"),
		slog.String("participant_id", participantID),
	)
	return participant, nil
}
