package llm

import (
	"errors"
	"fmt"
)

// ErrAuthenticationMissing indicates no API key is configured for the
// selected provider. Checked before any network attempt.
var ErrAuthenticationMissing = errors.New("no API key configured for the selected provider")

// ErrorKind classifies provider failures so callers can decide whether
// to retry without matching provider-specific error wording.
type ErrorKind string

// Error kinds returned by the client transport
const (
	// KindAuth is an authentication or authorization failure (401/403)
	KindAuth ErrorKind = "auth"
	// KindRateLimit is a rate or quota exhaustion signal (429)
	KindRateLimit ErrorKind = "rate_limit"
	// KindOverloaded is a transient server overload signal (502/503/529)
	KindOverloaded ErrorKind = "overloaded"
	// KindServer is a non-transient server-side failure (500)
	KindServer ErrorKind = "server"
	// KindBadRequest is a request the provider rejected (4xx)
	KindBadRequest ErrorKind = "bad_request"
	// KindNetwork is a transport-level failure before a response arrived
	KindNetwork ErrorKind = "network"
	// KindEmptyResponse means the provider returned no completion choices
	KindEmptyResponse ErrorKind = "empty_response"
)

// Transient reports whether an error of this kind is worth retrying.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimit, KindOverloaded, KindNetwork:
		return true
	}
	return false
}

// ProviderError represents a classified failure from the LLM provider.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (%s, http %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Transient reports whether the error is worth retrying.
func (e *ProviderError) Transient() bool {
	return e.Kind.Transient()
}

// classifyStatus maps an HTTP status code to an error kind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	case status == 502 || status == 503 || status == 529:
		return KindOverloaded
	case status >= 500:
		return KindServer
	default:
		return KindBadRequest
	}
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient()
	}
	return false
}
