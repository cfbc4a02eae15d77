package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"saylov/contexts/survey-core/voting-engine/application"
	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

const defaultOracleTimeout = 3 * time.Second

type AccessUseCase struct {
	Surveys       ports.SurveyReader
	Oracle        ports.MembershipOracle
	OracleTimeout time.Duration
	Logger        *slog.Logger
}

// CheckAccess evaluates every channel linked to the survey. A channel whose
// membership cannot be verified is treated as satisfied, so an oracle outage
// never locks participants out of voting.
func (uc AccessUseCase) CheckAccess(ctx context.Context, participantID string, surveyID string) (entities.AccessDecision, error) {
	logger := application.ResolveLogger(uc.Logger)

	participantID = strings.TrimSpace(participantID)
	surveyID = strings.TrimSpace(surveyID)
	if participantID == "" || surveyID == "" {
		return entities.AccessDecision{}, domainerrors.ErrInvalidVoteInput
	}

	if _, err := uc.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return entities.AccessDecision{}, err
	}

	channels, err := uc.Surveys.ListRequiredChannels(ctx, surveyID)
	if err != nil {
		return entities.AccessDecision{}, err
	}

	timeout := uc.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}

	missing := make([]entities.RequiredChannel, 0)
	for _, channel := range channels {
		lookupCtx, cancel := context.WithTimeout(ctx, timeout)
		status, lookupErr := uc.Oracle.ChatMember(lookupCtx, channel.PlatformRef, participantID)
		cancel()
		if lookupErr != nil {
			logger.Warn("membership lookup failed, channel treated as satisfied",
				slog.String("event", "voting_membership_lookup_failed"),
				slog.String("module", "voting-engine"),
				slog.String("layer", "application"),
				slog.String("channel_id", channel.ChannelID),
				slog.String("error", lookupErr.Error()),
			)
			continue
		}
		if !status.Satisfies() {
			missing = append(missing, channel)
		}
	}

	return entities.AccessDecision{
		Granted:         len(missing) == 0,
		MissingChannels: missing,
	}, nil
}
