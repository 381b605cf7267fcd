// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package auth implements credential sign-in and the JWT session lifecycle.

# Architecture

The service orchestrates the account store, the token codec, and the Redis
sign-in throttle. It owns no persistence of its own: sessions are stateless
JWT pairs, and account state is always re-read from the store so that role or
status changes take effect on the very next token operation.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/message"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/users"
)

// AccountSource is the account lookup the session flows depend on.
type AccountSource interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// Throttle guards the password check against brute-force attempts.
type Throttle interface {
	Allow(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// TokenPair carries one signed access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the sign-in result: the token pair plus the sanitized account.
type Session struct {
	TokenPair
	User users.User `json:"user"`
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential checks,
// token issuance, or the refresh flow must be reviewed by the security team.
type Service struct {
	accounts AccountSource
	codec    *sec.TokenCodec
	throttle Throttle
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accounts AccountSource, codec *sec.TokenCodec, throttle Throttle, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		codec:    codec,
		throttle: throttle,
		logger:   logger,
	}
}

// SignIn authenticates an email/password credential and issues a token pair.
//
// # Flow
//  1. The throttle may lock the email outright (429).
//  2. Lookup misses and password mismatches both return the same generic 401
//     so callers cannot probe which emails are registered.
//  3. Blocked, deactivated, and soft-deleted accounts are rejected with the
//     same status mapping used by the authentication guard.
//  4. Success resets the failure counter and signs a fresh pair.
func (service *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	// ── 1. Brute-Force Gate ───────────────────────────────────────────────

	if !service.throttle.Allow(ctx, email) {
		return nil, apperr.TooManyRequests("Too many failed sign-in attempts. Please try again later.")
	}

	// ── 2. Credential Check ───────────────────────────────────────────────

	account, err := service.accounts.FindByEmail(ctx, email)
	if err != nil {
		service.throttle.RecordFailure(ctx, email)
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	if !sec.CheckPasswordHash(password, account.Password) {
		service.throttle.RecordFailure(ctx, email)
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	// ── 3. Account State ──────────────────────────────────────────────────

	if err := account.CheckAccess(); err != nil {
		return nil, err
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	service.throttle.Reset(ctx, email)

	pair, err := service.issuePair(account)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_signed_in",
		slog.String("user_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	return &Session{TokenPair: *pair, User: account.Sanitized()}, nil
}

// RefreshAccess exchanges a valid refresh token for a fresh access token.
//
// The account is re-resolved by the email inside the claim, and the new
// access token carries the account's CURRENT id, email, and role — never the
// values frozen into the refresh token at sign-in. A demotion, block, or
// deletion therefore takes effect on the next refresh.
func (service *Service) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	// ── 1. Token Verification ─────────────────────────────────────────────

	claims, err := service.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return "", apperr.Unauthorized(message.For(message.Expired, "refresh token"))
	}

	// ── 2. Account Re-Resolution ──────────────────────────────────────────
	// A lookup miss means the account is gone (404); any other store failure
	// flows raw so the response boundary reports it as a server error.

	account, err := service.accounts.FindByEmail(ctx, claims.Email)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusNotFound {
			return "", apperr.NotFound(message.For(message.NotFound, "user"))
		}
		return "", fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if err := account.CheckAccess(); err != nil {
		return "", err
	}

	// ── 3. Fresh Access Token ─────────────────────────────────────────────

	accessToken, err := service.codec.SignAccess(account.ID, account.Email, string(account.Role))
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_sign_failed: %w", err)
	}

	return accessToken, nil
}

// issuePair signs a matching access/refresh pair for the account.
func (service *Service) issuePair(account *users.User) (*TokenPair, error) {
	accessToken, err := service.codec.SignAccess(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_access_failed: %w", err)
	}

	refreshToken, err := service.codec.SignRefresh(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_refresh_failed: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
