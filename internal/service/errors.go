package service

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// AuthenticationError rejects a request whose API key is missing, unknown,
// revoked or expired.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func authFailed(reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason}
}
