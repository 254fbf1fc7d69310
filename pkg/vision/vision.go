// Package vision defines the contract with vision-capable LLM backends:
// a structured metadata result, a client interface, and an error taxonomy
// explicit enough for callers to pick the right retry policy.
package vision

import (
	"context"
	"errors"
	"fmt"
)

// Metadata is the structured result of one inference call. All fields are
// validated immediately after parsing; nothing downstream handles nulls.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	Category    string
}

// Client is a vision-LLM backend: given an image and a prompt, return
// structured metadata or fail with a *ServiceError.
type Client interface {
	Infer(ctx context.Context, image []byte, prompt string) (*Metadata, error)
}

// Kind discriminates service failures. It is set by the client adapter
// that observed the failure, never inferred downstream from message text.
type Kind int

const (
	// Transient covers network errors, timeouts, and unparseable
	// responses. Retrying may succeed.
	Transient Kind = iota
	// RateLimited means the quota or request rate was exceeded. Retrying
	// helps only after a longer backoff.
	RateLimited
	// InvalidAuth means credentials were rejected. Retrying cannot help.
	InvalidAuth
	// Malformed means the service rejected the request itself. Retrying
	// the same request cannot help.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	case InvalidAuth:
		return "invalid auth"
	case Malformed:
		return "malformed request"
	default:
		return "transient"
	}
}

// Retryable reports whether another attempt can possibly succeed.
func (k Kind) Retryable() bool {
	return k == Transient || k == RateLimited
}

// ServiceError is a classified failure from a vision backend.
type ServiceError struct {
	Kind    Kind
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errf builds a classified error.
func Errf(kind Kind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from err, defaulting to Transient for
// unclassified errors.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return Transient
}
