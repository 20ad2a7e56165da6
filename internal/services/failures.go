package services

import "fmt"

// Failure types returned by the submitter and the auth/consent orchestrator.
// Callers distinguish them with errors.As: a ValidationFailure carries a
// user-facing reason, everything else degrades to a generic message.

// ValidationFailure means a backend (or a local pre-flight check) rejected
// the business input. Reason is shown to the end user verbatim; the request
// is not retried.
type ValidationFailure struct {
	Reason string
}

func (e *ValidationFailure) Error() string {
	return e.Reason
}

// TransportFailure means the request never produced a usable response:
// connection error, timeout, or a non-2xx with no structured reason. It is
// logged and surfaced as a generic message, never retried automatically.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// AuthFailure means the identity authority did not accept the presented
// credentials.
type AuthFailure struct {
	Reason string
}

func (e *AuthFailure) Error() string {
	return e.Reason
}
