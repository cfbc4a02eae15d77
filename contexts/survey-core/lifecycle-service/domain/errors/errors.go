package errors

import "errors"

var (
	ErrInvalidSurveyInput       = errors.New("invalid survey input")
	ErrEmptyCandidateList       = errors.New("survey requires at least one candidate")
	ErrSurveyNotFound           = errors.New("survey not found")
	ErrInvalidTransition        = errors.New("invalid survey state transition")
	ErrNotAuthorized            = errors.New("actor is not a survey author")
	ErrInvalidChannelInput      = errors.New("invalid channel input")
	ErrChannelNotFound          = errors.New("channel not found")
	ErrChannelAlreadyRegistered = errors.New("channel is already registered")
	ErrInvalidPublicationKind   = errors.New("invalid publication kind")
)
