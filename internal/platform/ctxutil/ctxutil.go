// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/maestroride/maestro/internal/platform/ctxkey"
	"github.com/maestroride/maestro/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithActor returns a new context with the authenticated actor attached.
//
// The guard resolves the actor once per request; everything downstream reads
// it through [GetActor] instead of re-verifying the token.
func WithActor(ctx context.Context, actor *sec.SessionClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyActor, actor)
}

// GetActor retrieves the [*sec.SessionClaims] from the [context.Context].
// Returns nil for anonymous requests.
func GetActor(ctx context.Context) *sec.SessionClaims {
	claims, ok := ctx.Value(ctxkey.KeyActor).(*sec.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// # Environment Mode

// WithDevMode returns a new context flagged with the development-mode setting.
func WithDevMode(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxkey.KeyDevMode, enabled)
}

// IsDevMode reports whether the request runs in development mode.
// Defaults to false (production behavior) when the flag is absent.
func IsDevMode(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxkey.KeyDevMode).(bool)
	return enabled
}
