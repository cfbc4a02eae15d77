package unit

import (
	"context"
	"errors"
	"testing"

	authoringservice "saylov/contexts/survey-core/authoring-service"
	authoringlifecycle "saylov/contexts/survey-core/authoring-service/adapters/lifecycle"
	authoringerrors "saylov/contexts/survey-core/authoring-service/domain/errors"
	authoringhttp "saylov/contexts/survey-core/authoring-service/transport/http"
	lifecycleservice "saylov/contexts/survey-core/lifecycle-service"
	lifecyclecommands "saylov/contexts/survey-core/lifecycle-service/application/commands"
)

func buildAuthoringModules(t *testing.T) (authoringservice.Module, lifecycleservice.Module) {
	t.Helper()
	lifecycleModule := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	creator := authoringlifecycle.Creator{
		UseCase: lifecyclecommands.CreateSurveyUseCase{
			Surveys:    lifecycleModule.Store,
			Authorizer: allowAllAuthorizer{},
			Clock:      lifecycleModule.Store,
			IDGen:      lifecycleModule.Store,
		},
	}
	authoringModule := authoringservice.NewInMemoryModule(creator, allowAllAuthorizer{}, nil)
	return authoringModule, lifecycleModule
}

func applyInput(t *testing.T, module authoringservice.Module, kind, value string) authoringhttp.FormStateResponse {
	t.Helper()
	resp, err := module.Handler.ApplyInputHandler(context.Background(), "admin-1", authoringhttp.FormInputRequest{
		Kind:  kind,
		Value: value,
	})
	if err != nil {
		t.Fatalf("apply %s input failed: %v", kind, err)
	}
	return resp
}

func TestFormDialogHappyPath(t *testing.T) {
	authoring, lifecycle := buildAuthoringModules(t)

	start, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("start form failed: %v", err)
	}
	if start.Stage != "awaiting_title" {
		t.Fatalf("expected awaiting_title, got %s", start.Stage)
	}

	if resp := applyInput(t, authoring, "text", "Best mentor"); resp.Stage != "awaiting_description" {
		t.Fatalf("expected awaiting_description, got %s", resp.Stage)
	}
	if resp := applyInput(t, authoring, "text", "Vote for the mentor of the year"); resp.Stage != "awaiting_media" {
		t.Fatalf("expected awaiting_media, got %s", resp.Stage)
	}
	if resp := applyInput(t, authoring, "skip", ""); resp.Stage != "awaiting_candidates" {
		t.Fatalf("expected awaiting_candidates after skip, got %s", resp.Stage)
	}
	applyInput(t, authoring, "text", "Aziza Karimova")
	applyInput(t, authoring, "text", "Bobur Aliev")

	done := applyInput(t, authoring, "done", "")
	if !done.Committed || done.SurveyID == "" {
		t.Fatalf("expected committed draft with survey id, got %+v", done)
	}

	survey, err := lifecycle.Handler.GetSurveyHandler(context.Background(), done.SurveyID)
	if err != nil {
		t.Fatalf("committed survey not found: %v", err)
	}
	if survey.Title != "Best mentor" || len(survey.Candidates) != 2 {
		t.Fatalf("expected committed survey with 2 candidates, got %+v", survey)
	}
	if survey.Status != "active" {
		t.Fatalf("expected committed survey active, got %s", survey.Status)
	}

	// The dialog is finished; further input has no draft to act on.
	_, err = authoring.Handler.ApplyInputHandler(context.Background(), "admin-1", authoringhttp.FormInputRequest{Kind: "text", Value: "late"})
	if !errors.Is(err, authoringerrors.ErrNoActiveDraft) {
		t.Fatalf("expected no active draft after commit, got %v", err)
	}
}

func TestFormDialogWithMedia(t *testing.T) {
	authoring, lifecycle := buildAuthoringModules(t)

	if _, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1"); err != nil {
		t.Fatalf("start form failed: %v", err)
	}
	applyInput(t, authoring, "text", "With poster")
	applyInput(t, authoring, "text", "desc")
	if resp := applyInput(t, authoring, "media", "file-ref-123"); resp.Stage != "awaiting_candidates" {
		t.Fatalf("expected awaiting_candidates after media, got %s", resp.Stage)
	}
	applyInput(t, authoring, "text", "Solo Candidate")
	done := applyInput(t, authoring, "done", "")

	survey, err := lifecycle.Handler.GetSurveyHandler(context.Background(), done.SurveyID)
	if err != nil {
		t.Fatalf("committed survey not found: %v", err)
	}
	if survey.MediaRef != "file-ref-123" {
		t.Fatalf("expected media ref carried into survey, got %q", survey.MediaRef)
	}
}

func TestFormDialogInvalidInputs(t *testing.T) {
	authoring, _ := buildAuthoringModules(t)

	if _, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1"); err != nil {
		t.Fatalf("start form failed: %v", err)
	}

	// Wrong input kind keeps the dialog at the same stage.
	_, err := authoring.Handler.ApplyInputHandler(context.Background(), "admin-1", authoringhttp.FormInputRequest{Kind: "done"})
	if !errors.Is(err, authoringerrors.ErrInvalidFormInput) {
		t.Fatalf("expected invalid form input, got %v", err)
	}
	state, err := authoring.Handler.FormStateHandler(context.Background(), "admin-1")
	if err != nil || state.Stage != "awaiting_title" {
		t.Fatalf("expected dialog still awaiting title, got %+v err=%v", state, err)
	}

	applyInput(t, authoring, "text", "Title")
	applyInput(t, authoring, "text", "desc")
	applyInput(t, authoring, "skip", "")

	// Finishing with no candidates is rejected.
	_, err = authoring.Handler.ApplyInputHandler(context.Background(), "admin-1", authoringhttp.FormInputRequest{Kind: "done"})
	if !errors.Is(err, authoringerrors.ErrInvalidFormInput) {
		t.Fatalf("expected invalid form input on empty candidate list, got %v", err)
	}

	// Blank candidate names are rejected too.
	_, err = authoring.Handler.ApplyInputHandler(context.Background(), "admin-1", authoringhttp.FormInputRequest{Kind: "text", Value: "   "})
	if !errors.Is(err, authoringerrors.ErrInvalidFormInput) {
		t.Fatalf("expected invalid form input on blank name, got %v", err)
	}
}

func TestFormDialogCancelAndRestart(t *testing.T) {
	authoring, _ := buildAuthoringModules(t)

	if _, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1"); err != nil {
		t.Fatalf("start form failed: %v", err)
	}
	applyInput(t, authoring, "text", "Doomed draft")

	cancelled := applyInput(t, authoring, "cancel", "")
	if !cancelled.Cancelled {
		t.Fatalf("expected cancelled dialog, got %+v", cancelled)
	}
	_, err := authoring.Handler.FormStateHandler(context.Background(), "admin-1")
	if !errors.Is(err, authoringerrors.ErrNoActiveDraft) {
		t.Fatalf("expected no active draft after cancel, got %v", err)
	}

	// Starting over mid-dialog silently replaces the draft.
	if _, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1"); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	applyInput(t, authoring, "text", "First try")
	restart, err := authoring.Handler.StartFormHandler(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if restart.Stage != "awaiting_title" {
		t.Fatalf("expected fresh draft at awaiting_title, got %s", restart.Stage)
	}
}

func TestFormDialogAuthorization(t *testing.T) {
	lifecycleModule := lifecycleservice.NewInMemoryModule(denyAllAuthorizer{}, nil)
	creator := authoringlifecycle.Creator{
		UseCase: lifecyclecommands.CreateSurveyUseCase{
			Surveys:    lifecycleModule.Store,
			Authorizer: denyAllAuthorizer{},
			Clock:      lifecycleModule.Store,
			IDGen:      lifecycleModule.Store,
		},
	}
	authoring := authoringservice.NewInMemoryModule(creator, denyAllAuthorizer{}, nil)

	_, err := authoring.Handler.StartFormHandler(context.Background(), "user-1")
	if !errors.Is(err, authoringerrors.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
}
