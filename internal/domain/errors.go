package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponse marks a create acknowledgment that cannot be trusted:
// success flag false/missing, or no server-assigned identifier on the data.
// It overrides an HTTP 2xx.
var ErrInvalidResponse = errors.New("invalid backend response")

// RemoteError carries the server-supplied message for a failed call. When
// the body had no message, callers substitute the per-operation fallback
// from the localized table.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.Status)
	}
	return e.Message
}

// ValidationError is raised client-side before any network call. Fields
// lists the offending field names in form order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "champs obligatoires manquants: " + strings.Join(e.Fields, ", ")
}

// TransitionError reports a workflow action attempted outside its guard.
type TransitionError struct {
	Action Action
	Status Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %s interdite depuis le statut %s", e.Action, e.Status)
}

// IsValidation reports whether err is (or wraps) a client-side validation
// failure, which must never reach the network layer.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
