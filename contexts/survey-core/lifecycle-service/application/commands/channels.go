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

type RegisterChannelCommand struct {
	ActorID     string
	PlatformRef string
	Name        string
	JoinURL     string
}

type LinkChannelCommand struct {
	ActorID   string
	SurveyID  string
	ChannelID string
}

type ChannelUseCase struct {
	Channels   ports.ChannelRepository
	Surveys    ports.SurveyRepository
	Authorizer ports.Authorizer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// RegisterChannel adds a channel to the operator's registry. Platform
// references are unique; re-registering an existing one fails.
func (uc ChannelUseCase) RegisterChannel(ctx context.Context, cmd RegisterChannelCommand) (entities.Channel, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(cmd.ActorID)) {
		return entities.Channel{}, domainerrors.ErrNotAuthorized
	}
	platformRef := strings.TrimSpace(cmd.PlatformRef)
	name := strings.TrimSpace(cmd.Name)
	if platformRef == "" || name == "" {
		return entities.Channel{}, domainerrors.ErrInvalidChannelInput
	}

	if _, found, err := uc.Channels.GetChannelByPlatformRef(ctx, platformRef); err != nil {
		return entities.Channel{}, err
	} else if found {
		return entities.Channel{}, domainerrors.ErrChannelAlreadyRegistered
	}

	channelID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Channel{}, err
	}
	channel := entities.Channel{
		ChannelID:   channelID,
		PlatformRef: platformRef,
		Name:        name,
		JoinURL:     strings.TrimSpace(cmd.JoinURL),
		CreatedAt:   uc.Clock.Now().UTC(),
	}
	if err := uc.Channels.CreateChannel(ctx, channel); err != nil {
		return entities.Channel{}, err
	}

	logger.Info("channel registered",
		"event", "lifecycle_channel_registered",
		"module", "survey-core/lifecycle-service",
		"layer", "application",
		"channel_id", channel.ChannelID,
		"platform_ref", platformRef,
	)
	return channel, nil
}

// RemoveChannel deletes a channel and drops every requirement row that
// references it.
func (uc ChannelUseCase) RemoveChannel(ctx context.Context, actorID string, channelID string) error {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(actorID)) {
		return domainerrors.ErrNotAuthorized
	}
	if _, err := uc.Channels.GetChannel(ctx, strings.TrimSpace(channelID)); err != nil {
		return err
	}
	if err := uc.Channels.DeleteChannel(ctx, strings.TrimSpace(channelID)); err != nil {
		return err
	}
	logger.Info("channel removed",
		"event", "lifecycle_channel_removed",
		"module", "survey-core/lifecycle-service",
		"layer", "application",
		"channel_id", strings.TrimSpace(channelID),
	)
	return nil
}

// LinkChannel adds a subscription requirement to a survey. The returned bool
// is the resulting linked state so callers can report it without a second
// read; linking an already linked pair is a no-op.
func (uc ChannelUseCase) LinkChannel(ctx context.Context, cmd LinkChannelCommand) (bool, error) {
	linked, err := uc.setLink(ctx, cmd, true)
	return linked, err
}

// UnlinkChannel removes a subscription requirement; unlinking a pair that is
// not linked is a no-op.
func (uc ChannelUseCase) UnlinkChannel(ctx context.Context, cmd LinkChannelCommand) (bool, error) {
	linked, err := uc.setLink(ctx, cmd, false)
	return linked, err
}

func (uc ChannelUseCase) setLink(ctx context.Context, cmd LinkChannelCommand, want bool) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !uc.Authorizer.IsAuthor(strings.TrimSpace(cmd.ActorID)) {
		return false, domainerrors.ErrNotAuthorized
	}
	surveyID := strings.TrimSpace(cmd.SurveyID)
	channelID := strings.TrimSpace(cmd.ChannelID)

	if _, err := uc.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return false, err
	}
	if _, err := uc.Channels.GetChannel(ctx, channelID); err != nil {
		return false, err
	}

	linked, err := uc.Channels.IsChannelLinked(ctx, surveyID, channelID)
	if err != nil {
		return false, err
	}
	if linked == want {
		return linked, nil
	}

	if want {
		err = uc.Channels.LinkChannel(ctx, entities.ChannelRequirement{
			SurveyID:  surveyID,
			ChannelID: channelID,
			CreatedAt: uc.Clock.Now().UTC(),
		})
	} else {
		err = uc.Channels.UnlinkChannel(ctx, surveyID, channelID)
	}
	if err != nil {
		return linked, err
	}

	logger.Info("survey channel requirement toggled",
		"event", "lifecycle_channel_requirement_toggled",
		"module", "survey-core/lifecycle-service",
		"layer", "application",
		"survey_id", surveyID,
		"channel_id", channelID,
		"linked", want,
	)
	return want, nil
}
