package services

import (
	"errors"
)

// Domain error taxonomy. Operations wrap these with fmt.Errorf("%w: ...") so
// callers branch with errors.Is while the message stays specific. The HTTP
// layer maps each sentinel to a status code; nothing here is transport-aware.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrSelfVote        = errors.New("cannot vote on your own content")
	ErrConflict        = errors.New("conflict")
)
