package domain

import "errors"

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRemote         = errors.New("remote call failed")
	ErrValidation     = errors.New("invalid input")
	ErrSessionState   = errors.New("session state mismatch")
)

// ValidationError is returned by the input grammars.
// Hint is an optional correction shown to the user.
type ValidationError struct {
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
