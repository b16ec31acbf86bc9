// Package common defines shared sentinel errors used across Gramola
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic flow control).
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")

	// Input validation, rejected before any external call or write.
	ErrValidation = errors.New("validation failed")

	// Payment verification: the processor disagrees with the client claim.
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// External collaborator (processor, geocoder) unreachable or errored.
	ErrUpstream = errors.New("upstream error")

	// Missing or malformed process configuration (e.g. vault secret).
	ErrConfiguration = errors.New("configuration error")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
