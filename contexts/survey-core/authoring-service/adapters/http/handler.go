package httpadapter

import (
	"context"
	"log/slog"

	"saylov/contexts/survey-core/authoring-service/application/commands"
	"saylov/contexts/survey-core/authoring-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/authoring-service/domain/errors"
	httptransport "saylov/contexts/survey-core/authoring-service/transport/http"
)

type Handler struct {
	Form   commands.FormUseCase
	Logger *slog.Logger
}

func (h Handler) StartFormHandler(ctx context.Context, actorID string) (httptransport.FormStateResponse, error) {
	prompt, err := h.Form.Start(ctx, actorID)
	if err != nil {
		return httptransport.FormStateResponse{}, err
	}
	return mapPrompt(prompt), nil
}

func (h Handler) ApplyInputHandler(
	ctx context.Context,
	actorID string,
	req httptransport.FormInputRequest,
) (httptransport.FormStateResponse, error) {
	kind := entities.InputKind(req.Kind)
	switch kind {
	case entities.InputText, entities.InputMedia, entities.InputSkip, entities.InputDone, entities.InputCancel:
	default:
		return httptransport.FormStateResponse{}, domainerrors.ErrInvalidFormInput
	}
	prompt, err := h.Form.Apply(ctx, actorID, entities.Input{Kind: kind, Value: req.Value})
	if err != nil {
		return httptransport.FormStateResponse{}, err
	}
	return mapPrompt(prompt), nil
}

func (h Handler) FormStateHandler(ctx context.Context, actorID string) (httptransport.FormStateResponse, error) {
	prompt, err := h.Form.Peek(ctx, actorID)
	if err != nil {
		return httptransport.FormStateResponse{}, err
	}
	return mapPrompt(prompt), nil
}

func mapPrompt(prompt entities.Prompt) httptransport.FormStateResponse {
	return httptransport.FormStateResponse{
		Stage:     string(prompt.Stage),
		Committed: prompt.Committed,
		Cancelled: prompt.Cancelled,
		SurveyID:  prompt.SurveyID,
	}
}
