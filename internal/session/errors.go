package session

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidCode      = errors.New("invalid code format")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoPendingCode    = errors.New("no pending verification code")
	ErrPurposeMismatch  = errors.New("pending code is for a different purpose")
	ErrNoSelection      = errors.New("no seat selected")
	ErrSeatTaken        = errors.New("seat already taken")
	ErrSingleLegOnly    = errors.New("backend books one leg per request")
	ErrInvalidSeat      = errors.New("no such seat on this flight")
	ErrInvalidPrice     = errors.New("price must be positive")
)

// FieldError marks a missing or malformed registration form field. Caught
// before any network call.
type FieldError struct {
	Field string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
