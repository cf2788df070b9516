// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels shared by the API client and the core components.
var (
	// ErrValidation indicates malformed input; recoverable by user correction.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested entity does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a rejected or expired credential (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a uniqueness violation (e.g., email already registered).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNetwork indicates a transport failure; the operation is abandoned, never retried.
	ErrNetwork = errors.New("network failure")

	// ErrAI indicates the AI capability failed; each submission is a single attempt.
	ErrAI = errors.New("ai service failure")
)
