package api

import (
	"errors"
	"fmt"
)

// ErrNoCredential is wrapped by AuthenticationError when no token is stored.
var ErrNoCredential = errors.New("no stored credential")

// AuthenticationError indicates the request could not be authenticated:
// either no credential was available (no request was sent) or the
// backend rejected the credential with HTTP 401.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication required: %v", e.Err)
	}
	return "authentication required"
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UpstreamError indicates the backend failed, answered with a non-2xx
// status, reported success=false, or broke the payload contract.
// StatusCode is 0 when no response was received.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream error (HTTP %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("upstream error: %s", msg)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is (or wraps) an AuthenticationError.
func IsAuthError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
