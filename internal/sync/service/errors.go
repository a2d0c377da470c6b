package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// Conflicts, mapped to 409 at the HTTP layer.
	ErrUsernameTaken         = errors.New("username already in use")
	ErrNewerVersion          = errors.New("there is a newer version")
	ErrRecordExists          = errors.New("a time record with that id already exists")
	ErrDuplicateRecordIDs    = errors.New("there are time records with repeated ids")
	ErrDuplicateDifficulties = errors.New("there are games with repeated difficulties")

	// ErrConsistency reports that a post-write read-back came up short.
	// This is a server fault, never a client error.
	ErrConsistency = errors.New("data could not be saved")
)

// AuthError covers every authentication failure: bad credentials,
// undecodable or replayed tokens, invalidated sessions. The outward message
// is always the same generic string; Reason is internal-only, for logs.
// Callers must not branch on it.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "could not validate credentials" }

func authErrorf(format string, args ...any) *AuthError {
	return &AuthError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input rejected before any engine work.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}
