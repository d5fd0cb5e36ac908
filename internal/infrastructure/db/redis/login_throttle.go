package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per email in Redis. Once maxAttempts
// failures land inside window the email is locked out until the key expires.
// Key format: login_failures:<email>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle over any Redis client flavour.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allowed reports whether another login attempt is permitted for email.
func (t *LoginThrottle) Allowed(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// RecordFailure bumps the failure counter. The window starts at the first
// failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(email))
}
