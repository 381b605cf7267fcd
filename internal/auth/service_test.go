// Copyright (c) 2026 Maestro Platform. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestroride/maestro/internal/auth"
	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/users"
)

// fakeAccounts backs the auth service with an in-memory account set.
// lookupErr simulates a store outage on every lookup.
type fakeAccounts struct {
	byEmail   map[string]*users.User
	lookupErr error
}

func (fake *fakeAccounts) FindByEmail(_ context.Context, email string) (*users.User, error) {
	if fake.lookupErr != nil {
		return nil, fake.lookupErr
	}
	if user, ok := fake.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User was not found. It may not exist or has been removed.")
}

// fakeThrottle records throttle interactions and can simulate a lockout.
type fakeThrottle struct {
	locked   bool
	failures int
	resets   int
}

func (fake *fakeThrottle) Allow(context.Context, string) bool { return !fake.locked }

func (fake *fakeThrottle) RecordFailure(context.Context, string) { fake.failures++ }

func (fake *fakeThrottle) Reset(context.Context, string) { fake.resets++ }

func newAuthFixture(t *testing.T) (*auth.Service, *sec.TokenCodec, *fakeAccounts, *fakeThrottle) {
	t.Helper()

	codec, err := sec.NewTokenCodec(
		"auth-access-secret", "auth-refresh-secret",
		time.Hour, 24*time.Hour, "maestroride.com",
	)
	require.NoError(t, err)

	accounts := &fakeAccounts{byEmail: map[string]*users.User{}}
	throttle := &fakeThrottle{}
	service := auth.NewService(accounts, codec, throttle, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return service, codec, accounts, throttle
}

func seedAccount(t *testing.T, accounts *fakeAccounts, email, password string, role users.Role) *users.User {
	t.Helper()

	hash, err := sec.HashPassword(password, 4)
	require.NoError(t, err)

	account := &users.User{
		ID:             "acc-" + email,
		Name:           "Test Account",
		Email:          email,
		Password:       hash,
		Role:           role,
		ActivityStatus: users.StatusActive,
		IsApproved:     true,
	}
	accounts.byEmail[email] = account
	return account
}

// # Sign-In

func TestSignIn_Success(t *testing.T) {
	service, codec, accounts, throttle := newAuthFixture(t)
	seedAccount(t, accounts, "rider@example.com", "Secret#One", users.RoleRider)

	session, err := service.SignIn(context.Background(), "rider@example.com", "Secret#One")
	require.NoError(t, err)

	assert.Empty(t, session.User.Password, "session account must be sanitized")
	assert.Equal(t, 1, throttle.resets)

	// Both tokens verify against their OWN secret and carry the identity.
	accessClaims, err := codec.VerifyAccess(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", accessClaims.Email)
	assert.Equal(t, string(users.RoleRider), accessClaims.Role)

	refreshClaims, err := codec.VerifyRefresh(session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, accessClaims.UserID, refreshClaims.UserID)
}

func TestSignIn_BadCredentialsAreIndistinguishable(t *testing.T) {
	service, _, accounts, throttle := newAuthFixture(t)
	seedAccount(t, accounts, "known@example.com", "Secret#One", users.RoleRider)

	_, unknownErr := service.SignIn(context.Background(), "unknown@example.com", "Secret#One")
	_, wrongPassErr := service.SignIn(context.Background(), "known@example.com", "Wrong#Pass")

	unknownAE := apperr.As(unknownErr)
	wrongAE := apperr.As(wrongPassErr)
	require.NotNil(t, unknownAE)
	require.NotNil(t, wrongAE)

	// Same status, same message: no account-probing oracle.
	assert.Equal(t, http.StatusUnauthorized, unknownAE.HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, wrongAE.HTTPStatus)
	assert.Equal(t, unknownAE.Message, wrongAE.Message)

	// Both failures feed the throttle.
	assert.Equal(t, 2, throttle.failures)
}

func TestSignIn_ThrottleLockout(t *testing.T) {
	service, _, accounts, throttle := newAuthFixture(t)
	seedAccount(t, accounts, "locked@example.com", "Secret#One", users.RoleRider)
	throttle.locked = true

	_, err := service.SignIn(context.Background(), "locked@example.com", "Secret#One")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)
}

func TestSignIn_AccountState(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*users.User)
		wantStatus int
	}{
		{"blocked", func(u *users.User) { u.ActivityStatus = users.StatusBlocked }, http.StatusForbidden},
		{"inactive", func(u *users.User) { u.ActivityStatus = users.StatusInactive }, http.StatusForbidden},
		{"deleted", func(u *users.User) { u.IsDeleted = true }, http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, accounts, _ := newAuthFixture(t)
			account := seedAccount(t, accounts, "state@example.com", "Secret#One", users.RoleRider)
			tt.mutate(account)

			_, err := service.SignIn(context.Background(), "state@example.com", "Secret#One")

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

// # Refresh

func TestRefresh_InvalidToken(t *testing.T) {
	service, _, _, _ := newAuthFixture(t)

	_, err := service.RefreshAccess(context.Background(), "garbage")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	service, codec, accounts, _ := newAuthFixture(t)
	seedAccount(t, accounts, "swap@example.com", "Secret#One", users.RoleRider)

	// An access token must never be accepted on the refresh path.
	accessToken, err := codec.SignAccess("u1", "swap@example.com", string(users.RoleRider))
	require.NoError(t, err)

	_, err = service.RefreshAccess(context.Background(), accessToken)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

func TestRefresh_AccountDisappeared(t *testing.T) {
	service, codec, _, _ := newAuthFixture(t)

	refreshToken, err := codec.SignRefresh("u1", "ghost@example.com", string(users.RoleRider))
	require.NoError(t, err)

	_, err = service.RefreshAccess(context.Background(), refreshToken)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestRefresh_StoreUnavailable(t *testing.T) {
	service, codec, accounts, _ := newAuthFixture(t)
	seedAccount(t, accounts, "outage@example.com", "Secret#One", users.RoleRider)

	refreshToken, err := codec.SignRefresh("u1", "outage@example.com", string(users.RoleRider))
	require.NoError(t, err)

	accounts.lookupErr = errors.New("connection refused")

	_, err = service.RefreshAccess(context.Background(), refreshToken)
	require.Error(t, err)

	// The raw failure flows through untyped so the response boundary reports
	// a server error, never "user was not found".
	assert.Nil(t, apperr.As(err))
}

func TestRefresh_ReResolvesCurrentRole(t *testing.T) {
	service, codec, accounts, _ := newAuthFixture(t)
	account := seedAccount(t, accounts, "promoted@example.com", "Secret#One", users.RoleRider)

	refreshToken, err := codec.SignRefresh(account.ID, account.Email, string(users.RoleRider))
	require.NoError(t, err)

	// The account is promoted AFTER the refresh token was issued.
	account.Role = users.RoleAdmin

	accessToken, err := service.RefreshAccess(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := codec.VerifyAccess(accessToken)
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleAdmin), claims.Role, "fresh token carries the CURRENT role")
}

func TestRefresh_StateRevoked(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*users.User)
		wantStatus int
	}{
		{"blocked_after_issue", func(u *users.User) { u.ActivityStatus = users.StatusBlocked }, http.StatusForbidden},
		{"deactivated_after_issue", func(u *users.User) { u.ActivityStatus = users.StatusInactive }, http.StatusForbidden},
		{"deleted_after_issue", func(u *users.User) { u.IsDeleted = true }, http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, codec, accounts, _ := newAuthFixture(t)
			account := seedAccount(t, accounts, "revoked@example.com", "Secret#One", users.RoleRider)

			refreshToken, err := codec.SignRefresh(account.ID, account.Email, string(account.Role))
			require.NoError(t, err)

			tt.mutate(account)

			_, err = service.RefreshAccess(context.Background(), refreshToken)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}
