package errors

import "errors"

var (
	ErrInvalidVoteInput         = errors.New("invalid vote input")
	ErrInvalidParticipantInput  = errors.New("invalid participant input")
	ErrDuplicateVote            = errors.New("participant has already voted in this survey")
	ErrSurveyClosed             = errors.New("survey is not accepting votes")
	ErrUnknownCandidate         = errors.New("candidate does not belong to this survey")
	ErrSurveyNotFound           = errors.New("survey not found")
	ErrParticipantNotRegistered = errors.New("participant is not registered")
	ErrOracleUnavailable        = errors.New("membership oracle unavailable")
)
