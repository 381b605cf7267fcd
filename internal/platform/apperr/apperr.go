// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package apperr defines the centralized error handling framework for Maestro.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct carrying an HTTP status and a client-safe message.
  - Source: Optional per-field failure entries for validation-shaped errors.
  - Boundary: AppErrors are raised at the detection site and classified exactly
    once by the respond package.

Every domain rule violation that leaves the service layer should be an
[AppError] so the top-level normalizer can map it without reinterpretation.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Maestro API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// in production to avoid leaking internal implementation details.
type AppError struct {
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Source holds per-field failure entries for validation-shaped responses.
	Source []SourceError `json:"errorSource,omitempty"`
}

// SourceError identifies a single offending field path and its failure reason.
type SourceError struct {
	// Path is the field (or dotted field path) that failed.
	Path string `json:"path"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// BadRequest creates a 400 [AppError] for malformed or duplicate input.
func BadRequest(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusBadRequest}
}

// AlreadyExists creates a 400 [AppError] for uniqueness violations.
//
// The platform contract maps duplicates to 400 rather than 409, so clients
// have a single "fix your input" status to branch on.
func AlreadyExists(msg string, source ...SourceError) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusBadRequest, Source: source}
}

// Unauthorized creates a 401 [AppError] for missing/invalid/expired tokens.
func Unauthorized(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden creates a 403 [AppError] for role or policy violations.
func Forbidden(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusForbidden}
}

// NotFound creates a 404 [AppError] for a missing entity or route.
func NotFound(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusNotFound}
}

// Gone creates a 410 [AppError] for access to a soft-deleted resource.
func Gone(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusGone}
}

// TooManyRequests creates a 429 [AppError].
func TooManyRequests(msg string) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusTooManyRequests}
}

// Validation creates a 400 [AppError] with per-field source entries.
func Validation(msg string, source ...SourceError) *AppError {
	return &AppError{Message: msg, HTTPStatus: http.StatusBadRequest, Source: source}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client in production.
func Internal(cause error) *AppError {
	return &AppError{
		Message:    "Something went wrong!",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
