package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures. The engine's retry logic pattern-
// matches on this closed set only — never on provider-specific strings.
type ErrorKind string

const (
	// KindAuthentication — invalid or missing credentials. Permanent.
	KindAuthentication ErrorKind = "authentication"
	// KindRateLimited — provider returned HTTP 429. Transient.
	KindRateLimited ErrorKind = "rate_limited"
	// KindTimeout — the call exceeded its deadline or was cancelled. Transient.
	KindTimeout ErrorKind = "timeout"
	// KindTransport — provider-side 5xx or connection failure. Transient.
	KindTransport ErrorKind = "transport"
	// KindValidation — bad request parameters (unknown scene, oversized
	// input). Permanent.
	KindValidation ErrorKind = "validation"
	// KindConformance — the model's output failed JSON decoding or shape
	// validation. Retried (the next sample may be in-spec), then the node
	// falls back.
	KindConformance ErrorKind = "conformance"
)

// Error is the typed failure the gateway raises. Wraps the provider error.
type Error struct {
	Kind  ErrorKind
	Scene string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm %s error (scene %s): %v", e.Kind, e.Scene, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind and the scene it occurred in.
func NewError(kind ErrorKind, scene string, err error) *Error {
	return &Error{Kind: kind, Scene: scene, Err: err}
}

// KindOf extracts the error kind, or "" when err is not a gateway error.
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// IsRetryable reports whether the node executor may retry the call:
// timeouts, rate limits, transport failures, and output-conformance
// errors. Authentication and request-validation errors, and anything
// outside the taxonomy, are permanent.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindTimeout, KindTransport, KindConformance:
		return true
	}
	return false
}
