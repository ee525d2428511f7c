// Package worker contains background maintenance jobs.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sparklewash/carwash-api/internal/auth"
)

const cleanupLockKey = "auth:token_cleanup:lock"

// StartTokenCleanup deletes expired-or-revoked refresh-token rows on a fixed
// interval. Those rows are terminal, so the sweep can run next to live
// requests without coordination; the redis lock only stops several instances
// from issuing the same DELETE at once. With a nil redis client the sweep
// runs unlocked, which merely risks duplicate (harmless) deletes.
//
// Runs until the process exits; call it in its own goroutine.
func StartTokenCleanup(tokens auth.TokenStore, rdb *redis.Client, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	instanceID := uuid.NewString()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		sweep(tokens, rdb, instanceID, interval)
	}
}

func sweep(tokens auth.TokenStore, rdb *redis.Client, instanceID string, interval time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if rdb != nil {
		// Lock TTL shorter than the interval so a crashed holder cannot
		// block the sweep forever.
		ok, err := rdb.SetNX(ctx, cleanupLockKey, instanceID, interval/2).Result()
		if err != nil || !ok {
			return // another instance owns this tick, or redis is down
		}
	}

	n, err := tokens.DeleteExpiredOrRevoked(ctx)
	if err != nil {
		log.Printf("token-cleanup: sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("token-cleanup: removed %d expired or revoked refresh tokens", n)
	}
}
