package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no session exists for a requested id.
var ErrNotFound = errors.New("session not found")

// SessionError carries a session id through an error chain so callers can
// report it without string parsing.
type SessionError struct {
	// The underlying error that occurred
	Err error
	// The session id related to the error, if available
	SessionID string
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s (session ID: %s)", e.Err.Error(), e.SessionID)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *SessionError) Unwrap() error {
	return e.Err
}

// WithSessionID wraps an error with a session id
func WithSessionID(err error, sessionID string) error {
	if err == nil {
		return nil
	}
	return &SessionError{
		Err:       err,
		SessionID: sessionID,
	}
}

// GetSessionID returns the session id from an error if it's a SessionError
func GetSessionID(err error) (string, bool) {
	var sessErr *SessionError
	if errors.As(err, &sessErr) {
		return sessErr.SessionID, sessErr.SessionID != ""
	}
	return "", false
}
