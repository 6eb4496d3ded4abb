package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected marks a submission that was ignored without side effects.
	ErrRejected = errors.New("submission rejected")

	ErrMalformedAttachment    = errors.New("malformed attachment")
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidTask            = errors.New("task title is empty")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrEmptyResponse          = errors.New("gateway returned no text")
)

type GatewayErrorKind string

const (
	GatewayErrorCredential GatewayErrorKind = "credential"
	GatewayErrorPolicy     GatewayErrorKind = "policy"
	GatewayErrorTransport  GatewayErrorKind = "transport"
	GatewayErrorEmpty      GatewayErrorKind = "empty"
)

// GatewayError is a classified failure of the generation backend.
type GatewayError struct {
	Kind GatewayErrorKind
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway %s error", e.Kind)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// GatewayErrorKindOf reports the kind of err, treating unclassified errors as transport.
func GatewayErrorKindOf(err error) GatewayErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	if errors.Is(err, ErrEmptyResponse) {
		return GatewayErrorEmpty
	}
	return GatewayErrorTransport
}
