// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, cookie lifetimes, and sign-in throttling.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "maestro-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "maestroride.com"

	// AccessCookieMaxAge is the browser lifetime of the access-token cookie.
	AccessCookieMaxAge = 24 * time.Hour

	// RefreshCookieMaxAge is the browser lifetime of the refresh-token cookie.
	RefreshCookieMaxAge = 30 * 24 * time.Hour

	// SignInFailureLimit is the number of failed password attempts tolerated
	// per email before the throttle locks further attempts.
	SignInFailureLimit = 5

	// SignInFailureWindow is the counting window for failed attempts.
	SignInFailureWindow = 15 * time.Minute
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldMessage = "message"
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSignInFail = "auth:signin_fail:"
)
