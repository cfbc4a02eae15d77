package commands

import (
	"context"
	"log/slog"
	"strings"

	"saylov/contexts/survey-core/authoring-service/application"
	"saylov/contexts/survey-core/authoring-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/authoring-service/domain/errors"
	"saylov/contexts/survey-core/authoring-service/ports"
)

type FormUseCase struct {
	Drafts     ports.DraftStore
	Creator    ports.SurveyCreator
	Authorizer ports.Authorizer
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Start opens a fresh draft for the author. An unfinished draft from an
// earlier dialog is replaced without complaint.
func (uc FormUseCase) Start(ctx context.Context, actorID string) (entities.Prompt, error) {
	logger := application.ResolveLogger(uc.Logger)

	actorID = strings.TrimSpace(actorID)
	if actorID == "" || !uc.Authorizer.IsAuthor(actorID) {
		return entities.Prompt{}, domainerrors.ErrNotAuthorized
	}

	now := uc.Clock.Now()
	draft := entities.Draft{
		AuthorID:  actorID,
		Stage:     entities.StageAwaitingTitle,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Drafts.SaveDraft(ctx, draft); err != nil {
		return entities.Prompt{}, err
	}

	logger.Info("draft started",
		slog.String("event", "authoring_draft_started"),
		slog.String("module", "authoring-service"),
		slog.String("layer", "application"),
		slog.String("author_id", actorID),
	)
	return entities.Prompt{Stage: entities.StageAwaitingTitle}, nil
}

// Apply feeds one author input into the dialog. Cancel works at every stage.
// An input that does not fit the current stage fails with ErrInvalidFormInput
// and leaves the draft where it was, so the author can simply try again.
func (uc FormUseCase) Apply(ctx context.Context, actorID string, input entities.Input) (entities.Prompt, error) {
	logger := application.ResolveLogger(uc.Logger)

	actorID = strings.TrimSpace(actorID)
	if actorID == "" || !uc.Authorizer.IsAuthor(actorID) {
		return entities.Prompt{}, domainerrors.ErrNotAuthorized
	}

	draft, found, err := uc.Drafts.GetDraft(ctx, actorID)
	if err != nil {
		return entities.Prompt{}, err
	}
	if !found {
		return entities.Prompt{}, domainerrors.ErrNoActiveDraft
	}

	if input.Kind == entities.InputCancel {
		if err := uc.Drafts.DeleteDraft(ctx, actorID); err != nil {
			return entities.Prompt{}, err
		}
		logger.Info("draft cancelled",
			slog.String("event", "authoring_draft_cancelled"),
			slog.String("module", "authoring-service"),
			slog.String("layer", "application"),
			slog.String("author_id", actorID),
		)
		return entities.Prompt{Cancelled: true}, nil
	}

	value := strings.TrimSpace(input.Value)

	switch draft.Stage {
	case entities.StageAwaitingTitle:
		if input.Kind != entities.InputText || value == "" {
			return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
		}
		draft.Title = value
		draft.Stage = entities.StageAwaitingDescription

	case entities.StageAwaitingDescription:
		if input.Kind != entities.InputText || value == "" {
			return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
		}
		draft.Description = value
		draft.Stage = entities.StageAwaitingMedia

	case entities.StageAwaitingMedia:
		switch input.Kind {
		case entities.InputMedia:
			if value == "" {
				return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
			}
			draft.MediaRef = value
		case entities.InputSkip:
			// Media is optional.
		default:
			return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
		}
		draft.Stage = entities.StageAwaitingCandidates

	case entities.StageAwaitingCandidates:
		switch input.Kind {
		case entities.InputText:
			if value == "" {
				return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
			}
			draft.CandidateNames = append(draft.CandidateNames, value)
		case entities.InputDone:
			if len(draft.CandidateNames) == 0 {
				return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
			}
			return uc.commit(ctx, actorID, draft)
		default:
			return entities.Prompt{Stage: draft.Stage}, domainerrors.ErrInvalidFormInput
		}

	default:
		return entities.Prompt{}, domainerrors.ErrInvalidFormInput
	}

	draft.UpdatedAt = uc.Clock.Now()
	if err := uc.Drafts.SaveDraft(ctx, draft); err != nil {
		return entities.Prompt{}, err
	}
	return entities.Prompt{Stage: draft.Stage}, nil
}

// commit hands the draft to the lifecycle service. The draft is discarded
// whether the handoff succeeds or not, so a failed commit never leaves the
// author stuck in a half-finished dialog.
func (uc FormUseCase) commit(ctx context.Context, actorID string, draft entities.Draft) (entities.Prompt, error) {
	logger := application.ResolveLogger(uc.Logger)

	surveyID, createErr := uc.Creator.CreateSurvey(ctx, draft)
	if deleteErr := uc.Drafts.DeleteDraft(ctx, actorID); deleteErr != nil && createErr == nil {
		return entities.Prompt{}, deleteErr
	}
	if createErr != nil {
		return entities.Prompt{}, createErr
	}

	logger.Info("draft committed",
		slog.String("event", "authoring_draft_committed"),
		slog.String("module", "authoring-service"),
		slog.String("layer", "application"),
		slog.String("author_id", actorID),
		slog.String("survey_id", surveyID),
	)
	return entities.Prompt{Committed: true, SurveyID: surveyID}, nil
}

// Peek reports the stage an author's dialog is waiting at.
func (uc FormUseCase) Peek(ctx context.Context, actorID string) (entities.Prompt, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" || !uc.Authorizer.IsAuthor(actorID) {
		return entities.Prompt{}, domainerrors.ErrNotAuthorized
	}
	draft, found, err := uc.Drafts.GetDraft(ctx, actorID)
	if err != nil {
		return entities.Prompt{}, err
	}
	if !found {
		return entities.Prompt{}, domainerrors.ErrNoActiveDraft
	}
	return entities.Prompt{Stage: draft.Stage}, nil
}
