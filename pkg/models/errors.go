package models

import (
	"errors"
	"fmt"
)

// ErrProviderDisabled marks an adapter whose credential is absent. The
// feature is disabled and the request degrades; it never fails.
var ErrProviderDisabled = errors.New("provider disabled: credential not configured")

// ErrMalformedResponse marks a backend response missing an expected field.
// Callers treat it as empty and skip the stage.
var ErrMalformedResponse = errors.New("malformed backend response")

// UnsupportedModelError is returned by the registry when no adapter
// matches a model id. The gateway converts it into a diagnostic response,
// never an HTTP error.
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %s", e.Model)
}

func NewUnsupportedModelError(model string) error {
	return &UnsupportedModelError{Model: model}
}

// TransportError wraps a network or timeout failure at an external call
// site, tagged with the backend's identity.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(backend string, err error) error {
	return &TransportError{Backend: backend, Err: err}
}
