package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Oracle resolves channel membership through the Telegram Bot API
// getChatMember method.
type Oracle struct {
	client  *http.Client
	apiBase string
	token   string
	logger  *slog.Logger
}

func NewOracle(token string, timeout time.Duration, logger *slog.Logger) *Oracle {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{
		client:  &http.Client{Timeout: timeout},
		apiBase: defaultAPIBase,
		token:   token,
		logger:  logger,
	}
}

type chatMemberResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		Status string `json:"status"`
	} `json:"result"`
	Description string `json:"description"`
}

func (o *Oracle) ChatMember(ctx context.Context, platformRef string, participantID string) (entities.MembershipStatus, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChatMember", o.apiBase, o.token)
	query := url.Values{}
	query.Set("chat_id", platformRef)
	query.Set("user_id", participantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrOracleUnavailable, err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	var payload chatMemberResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrOracleUnavailable, err)
	}
	if !payload.OK {
		o.logger.Warn("chat member lookup rejected",
			slog.String("event", "voting_oracle_rejected"),
			slog.String("module", "voting-engine"),
			slog.String("layer", "adapters"),
			slog.String("description", payload.Description),
		)
		return "", fmt.Errorf("%w: %s", domainerrors.ErrOracleUnavailable, payload.Description)
	}

	switch payload.Result.Status {
	case "creator":
		return entities.MembershipOwner, nil
	case "administrator":
		return entities.MembershipAdministrator, nil
	case "member":
		return entities.MembershipMember, nil
	default:
		return entities.MembershipNotMember, nil
	}
}

var _ ports.MembershipOracle = (*Oracle)(nil)
