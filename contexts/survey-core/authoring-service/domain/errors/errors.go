package errors

import "errors"

var (
	ErrInvalidFormInput = errors.New("input does not fit the current form stage")
	ErrNoActiveDraft    = errors.New("author has no draft in progress")
	ErrNotAuthorized    = errors.New("actor is not allowed to author surveys")
)
