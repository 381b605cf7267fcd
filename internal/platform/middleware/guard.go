// Copyright (c) 2026 Maestro Platform. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/constants"
	"github.com/maestroride/maestro/internal/platform/ctxutil"
	"github.com/maestroride/maestro/internal/platform/message"
	"github.com/maestroride/maestro/internal/platform/respond"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/users"
)

// TokenVerifier defines the interface needed to verify access tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the guard from the [sec.TokenCodec]
// implementation, allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*sec.SessionClaims, error)
}

// AccountSource is the account lookup the guard performs per request.
type AccountSource interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// Guard resolves a bearer token into an authenticated actor and enforces
// role membership plus account-state gating.
type Guard struct {
	verifier         TokenVerifier
	accounts         AccountSource
	accessCookieName string
}

// NewGuard constructs a [Guard] with its dependencies.
func NewGuard(verifier TokenVerifier, accounts AccountSource, accessCookieName string) *Guard {
	return &Guard{
		verifier:         verifier,
		accounts:         accounts,
		accessCookieName: accessCookieName,
	}
}

// RequireRoles returns middleware that admits only authenticated actors
// whose role is in the permitted set, short-circuiting otherwise.
//
// # Check Order (load-bearing)
//
//  1. Token absent            -> 401
//  2. Token fails verification -> 401
//  3. Claim role not permitted -> 403
//  4. Account lookup misses    -> 404
//  5. BLOCKED / INACTIVE       -> 403 (status-specific message)
//  6. Soft-deleted             -> 410
//
// Cheap token-local checks run before the store lookup, and authorization
// (role) is checked before account state: a revoked token for a disallowed
// role reports Forbidden, never a stale NotFound.
func (guard *Guard) RequireRoles(permitted ...users.Role) func(http.Handler) http.Handler {
	allowed := make(map[users.Role]struct{}, len(permitted))
	for _, role := range permitted {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────
			token := guard.extractToken(request)
			if token == "" {
				respond.Error(writer, request, apperr.Unauthorized(message.For(message.NotFound, "token")))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────
			claims, err := guard.verifier.VerifyAccess(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized(message.For(message.Expired, "token")))
				return
			}

			// ── 3. Role Membership ────────────────────────────────────────
			if _, ok := allowed[users.Role(claims.Role)]; !ok {
				respond.Error(writer, request, apperr.Forbidden(message.For(message.Unauthorized, "user")))
				return
			}

			// ── 4. Account Resolution ─────────────────────────────────────
			// Only a 404-shaped lookup miss becomes "user was not found"; a
			// store outage flows to the normalizer as the 500 it is.
			account, err := guard.accounts.FindByEmail(request.Context(), claims.Email)
			if err != nil {
				if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusNotFound {
					respond.Error(writer, request, apperr.NotFound(message.For(message.NotFound, "user")))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 5/6. Account State (re-checked per request, never cached) ─
			if err := account.CheckAccess(); err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── Actor Attachment ──────────────────────────────────────────
			ctx := ctxutil.WithActor(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the Authorization header (raw
// token, no "Bearer" scheme prefix) or falls back to the access cookie.
func (guard *Guard) extractToken(request *http.Request) string {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		return header
	}

	if guard.accessCookieName != "" {
		if cookie, err := request.Cookie(guard.accessCookieName); err == nil {
			return cookie.Value
		}
	}

	return ""
}
