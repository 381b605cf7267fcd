// Copyright (c) 2026 Maestro Platform. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maestroride/maestro/internal/platform/constants"
)

// SignInThrottle counts failed password attempts per email in Redis and locks
// further attempts once the limit is reached within the window.
//
// # Failure Semantics
//
// The throttle fails OPEN: if Redis is unreachable the sign-in flow proceeds
// without throttling. Availability of authentication outranks the brute-force
// protection it provides.
type SignInThrottle struct {
	client *redis.Client
	logger *slog.Logger
	limit  int64
	window time.Duration
}

// NewSignInThrottle constructs a throttle with the platform limits.
func NewSignInThrottle(client *redis.Client, logger *slog.Logger) *SignInThrottle {
	return &SignInThrottle{
		client: client,
		logger: logger,
		limit:  constants.SignInFailureLimit,
		window: constants.SignInFailureWindow,
	}
}

// Allow reports whether a sign-in attempt for the email may proceed.
func (throttle *SignInThrottle) Allow(ctx context.Context, email string) bool {
	count, err := throttle.client.Get(ctx, throttle.key(email)).Int64()
	if err != nil {
		if err != redis.Nil {
			throttle.logger.Warn("signin_throttle_read_failed", slog.String("error", err.Error()))
		}
		return true
	}

	return count < throttle.limit
}

// RecordFailure increments the failure counter for the email. The counting
// window starts at the first failure and is not extended by later ones.
func (throttle *SignInThrottle) RecordFailure(ctx context.Context, email string) {
	key := throttle.key(email)

	count, err := throttle.client.Incr(ctx, key).Result()
	if err != nil {
		throttle.logger.Warn("signin_throttle_incr_failed", slog.String("error", err.Error()))
		return
	}

	if count == 1 {
		if err := throttle.client.Expire(ctx, key, throttle.window).Err(); err != nil {
			throttle.logger.Warn("signin_throttle_expire_failed", slog.String("error", err.Error()))
		}
	}
}

// Reset clears the failure counter after a successful sign-in.
func (throttle *SignInThrottle) Reset(ctx context.Context, email string) {
	if err := throttle.client.Del(ctx, throttle.key(email)).Err(); err != nil {
		throttle.logger.Warn("signin_throttle_reset_failed", slog.String("error", err.Error()))
	}
}

func (throttle *SignInThrottle) key(email string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixSignInFail, email)
}
