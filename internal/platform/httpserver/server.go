package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	authoringservice "saylov/contexts/survey-core/authoring-service"
	authoringerrors "saylov/contexts/survey-core/authoring-service/domain/errors"
	authoringhttp "saylov/contexts/survey-core/authoring-service/transport/http"
	lifecycleservice "saylov/contexts/survey-core/lifecycle-service"
	lifecycleerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	lifecyclehttp "saylov/contexts/survey-core/lifecycle-service/transport/http"
	votingengine "saylov/contexts/survey-core/voting-engine"
	votingerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	votinghttp "saylov/contexts/survey-core/voting-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "saylov/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	lifecycle lifecycleservice.Module
	voting    votingengine.Module
	authoring authoringservice.Module
}

func New(
	lifecycle lifecycleservice.Module,
	voting votingengine.Module,
	authoring authoringservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		lifecycle: lifecycle,
		voting:    voting,
		authoring: authoring,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/surveys", s.handleCreateSurvey)
	s.mux.HandleFunc("GET /api/surveys", s.handleListSurveys)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}", s.handleGetSurvey)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/close", s.handleCloseSurvey)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/retire", s.handleRetireSurvey)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/publication", s.handlePublication)

	s.mux.HandleFunc("POST /api/channels", s.handleRegisterChannel)
	s.mux.HandleFunc("GET /api/channels", s.handleListChannels)
	s.mux.HandleFunc("DELETE /api/channels/{channel_id}", s.handleRemoveChannel)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/channels", s.handleRequiredChannels)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/channels/{channel_id}/link", s.handleLinkChannel)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/channels/{channel_id}/unlink", s.handleUnlinkChannel)

	s.mux.HandleFunc("POST /api/participants", s.handleRegisterParticipant)
	s.mux.HandleFunc("POST /api/surveys/{survey_id}/votes", s.handleRegisterVote)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/votes/me", s.handleHasVoted)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/access", s.handleCheckAccess)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/standings", s.handleStandings)
	s.mux.HandleFunc("GET /api/surveys/{survey_id}/participation", s.handleParticipation)

	s.mux.HandleFunc("POST /api/authoring/form/start", s.handleStartForm)
	s.mux.HandleFunc("POST /api/authoring/form/input", s.handleApplyInput)
	s.mux.HandleFunc("GET /api/authoring/form", s.handleFormState)
}

func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req lifecyclehttp.CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.CreateSurveyHandler(r.Context(), actorID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.ListVotableHandler(r.Context())
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.GetSurveyHandler(r.Context(), r.PathValue("survey_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.CloseSurveyHandler(r.Context(), actorID, r.PathValue("survey_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetireSurvey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.RetireSurveyHandler(r.Context(), actorID, r.PathValue("survey_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req lifecyclehttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.AddCandidateHandler(r.Context(), actorID, r.PathValue("survey_id"), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handlePublication(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.PublicationHandler(
		r.Context(),
		r.PathValue("survey_id"),
		r.URL.Query().Get("kind"),
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterChannel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req lifecyclehttp.RegisterChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.RegisterChannelHandler(r.Context(), actorID, req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.ListChannelsHandler(r.Context())
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveChannel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.lifecycle.Handler.RemoveChannelHandler(r.Context(), actorID, r.PathValue("channel_id")); err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequiredChannels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.RequiredChannelsHandler(r.Context(), r.PathValue("survey_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLinkChannel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.LinkChannelHandler(
		r.Context(),
		actorID,
		r.PathValue("survey_id"),
		r.PathValue("channel_id"),
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnlinkChannel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.lifecycle.Handler.UnlinkChannelHandler(
		r.Context(),
		actorID,
		r.PathValue("survey_id"),
		r.PathValue("channel_id"),
	)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req votinghttp.RegisterParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.RegisterParticipantHandler(r.Context(), participantID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVote(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req votinghttp.RegisterVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.RegisterVoteHandler(r.Context(), participantID, r.PathValue("survey_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.HasVotedHandler(r.Context(), participantID, r.PathValue("survey_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.CheckAccessHandler(r.Context(), participantID, r.PathValue("survey_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.StandingsHandler(r.Context(), r.PathValue("survey_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParticipation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ParticipationReportHandler(r.Context(), r.PathValue("survey_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartForm(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.authoring.Handler.StartFormHandler(r.Context(), actorID)
	if err != nil {
		writeAuthoringDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyInput(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req authoringhttp.FormInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthoringError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.authoring.Handler.ApplyInputHandler(r.Context(), actorID, req)
	if err != nil {
		writeAuthoringDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFormState(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.authoring.Handler.FormStateHandler(r.Context(), actorID)
	if err != nil {
		writeAuthoringDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLifecycleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrInvalidSurveyInput),
		errors.Is(err, lifecycleerrors.ErrInvalidChannelInput),
		errors.Is(err, lifecycleerrors.ErrInvalidPublicationKind),
		errors.Is(err, lifecycleerrors.ErrEmptyCandidateList):
		writeLifecycleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, lifecycleerrors.ErrSurveyNotFound),
		errors.Is(err, lifecycleerrors.ErrChannelNotFound):
		writeLifecycleError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidTransition),
		errors.Is(err, lifecycleerrors.ErrChannelAlreadyRegistered):
		writeLifecycleError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, lifecycleerrors.ErrNotAuthorized):
		writeLifecycleError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeLifecycleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidVoteInput),
		errors.Is(err, votingerrors.ErrInvalidParticipantInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votingerrors.ErrParticipantNotRegistered):
		writeVotingError(w, http.StatusForbidden, "participant_not_registered", err.Error())
	case errors.Is(err, votingerrors.ErrSurveyNotFound):
		writeVotingError(w, http.StatusNotFound, "survey_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrSurveyClosed):
		writeVotingError(w, http.StatusConflict, "survey_closed", err.Error())
	case errors.Is(err, votingerrors.ErrDuplicateVote):
		writeVotingError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, votingerrors.ErrUnknownCandidate):
		writeVotingError(w, http.StatusUnprocessableEntity, "unknown_candidate", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthoringDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authoringerrors.ErrInvalidFormInput):
		writeAuthoringError(w, http.StatusUnprocessableEntity, "invalid_form_input", err.Error())
	case errors.Is(err, authoringerrors.ErrNoActiveDraft):
		writeAuthoringError(w, http.StatusNotFound, "no_active_draft", err.Error())
	case errors.Is(err, authoringerrors.ErrNotAuthorized):
		writeAuthoringError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAuthoringError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLifecycleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lifecyclehttp.ErrorResponse{Code: code, Message: message})
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}

func writeAuthoringError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authoringhttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, lifecyclehttp.ErrorResponse{
			Code:    "missing_user",
			Message: "X-User-Id header is required",
		})
		return "", false
	}
	return userID, true
}
