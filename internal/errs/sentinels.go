// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrValidation indicates malformed local input; no request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates the operation needs a signed-in session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the session lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates a transient transport or service failure.
	ErrUnavailable = errors.New("service unavailable")

	// ErrPaymentInFlight indicates a payment for the booking is already running.
	ErrPaymentInFlight = errors.New("payment already in flight")
)
