// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the minimal identity payload embedded inside both access
// and refresh tokens.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the JWT, the
// authentication guard can gate by role WITHOUT a database round-trip for the
// authorization decision itself; the store lookup that follows only checks
// account state (blocked/inactive/deleted).
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// ErrInvalidToken is returned when a token fails signature, shape, or expiry
// checks. Callers distinguish "absent" from "invalid" themselves; this error
// only ever means the latter.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// TokenCodec signs and verifies the access/refresh token pair using HS256.
//
// # Key Separation
//
// Access and refresh tokens use DISTINCT secrets. A refresh token presented
// to [TokenCodec.VerifyAccess] fails signature validation and vice versa, so
// the long-lived credential can never be replayed as a bearer access token.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenCodec creates a TokenCodec from the configured secrets and expiries.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenCodec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// SignAccess produces a signed, short-lived access token binding the claim.
func (codec *TokenCodec) SignAccess(userID, email, role string) (string, error) {
	return codec.sign(userID, email, role, codec.accessSecret, codec.accessTTL)
}

// SignRefresh produces a signed, long-lived refresh token binding the claim.
func (codec *TokenCodec) SignRefresh(userID, email, role string) (string, error) {
	return codec.sign(userID, email, role, codec.refreshSecret, codec.refreshTTL)
}

// VerifyAccess checks the signature and expiry of an access token string.
//
// Returns [ErrInvalidToken] (wrapped) when the signature is invalid, the
// token malformed, or expired.
func (codec *TokenCodec) VerifyAccess(tokenString string) (*SessionClaims, error) {
	return codec.verify(tokenString, codec.accessSecret)
}

// VerifyRefresh checks the signature and expiry of a refresh token string.
func (codec *TokenCodec) VerifyRefresh(tokenString string) (*SessionClaims, error) {
	return codec.verify(tokenString, codec.refreshSecret)
}

func (codec *TokenCodec) sign(userID, email, role string, secret []byte, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (codec *TokenCodec) verify(tokenString string, secret []byte) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
