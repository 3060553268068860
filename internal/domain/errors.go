package domain

import "errors"

// Shared failure taxonomy for providers and notifiers. Adapters wrap
// these so callers can classify with errors.Is; the text of the
// wrapped error becomes the result's ErrorMessage.
var (
	// ErrUnconfigured signals a required credential is absent. It is
	// detected locally, before any network call is attempted.
	ErrUnconfigured = errors.New("credentials not configured")

	// ErrTransport signals a network-level failure (DNS, timeout,
	// connection reset).
	ErrTransport = errors.New("transport failure")

	// ErrRemote signals a provider responded with an error payload or
	// a non-success status.
	ErrRemote = errors.New("remote error")

	// ErrParse signals a response with an unexpected shape.
	ErrParse = errors.New("unexpected response shape")
)
