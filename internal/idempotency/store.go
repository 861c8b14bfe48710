// Package idempotency remembers which Telegram updates were already handled so a
// redelivered update does not produce a second reply.
package idempotency

import (
	"context"
	"time"
)

// Store records claims on update keys.
type Store interface {
	// Claim marks key as handled for ttl. It reports false when the key was already claimed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so a later redelivery is handled again.
	Release(ctx context.Context, key string) error
}
