// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (actor identity, request
// ID, logger, environment mode). Using a private, unexported type for keys
// prevents collisions with third-party packages that might also use context
// for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
//
// # Collision Prevention
//
// Even if another package uses "request_id" as a string key, it will not
// collide with this key type because Go's [context.Context] uses both the
// value AND the type for lookups.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyActor is the context key for the authenticated actor ([sec.SessionClaims]).
	KeyActor key = "actor"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyDevMode is the context key for the development-mode flag consumed by
	// the error normalizer when deciding whether to attach raw error details.
	KeyDevMode key = "dev_mode"
)
