package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuotaConfig bounds how many imports a single user may start per window.
type QuotaConfig struct {
	ImportsPerWindow int
	WindowDuration   time.Duration
}

// DefaultQuotaConfig returns the standard per-user import quota.
func DefaultQuotaConfig() *QuotaConfig {
	return &QuotaConfig{
		ImportsPerWindow: 10,
		WindowDuration:   time.Hour,
	}
}

// Quota implements the per-user import limit on Redis keyed counters, so the
// limit holds across instances. Process-local state is deliberately not used.
type Quota struct {
	redis  *redis.Client
	config *QuotaConfig
	prefix string
}

// NewQuota creates a new Quota
func NewQuota(redisClient *redis.Client, config *QuotaConfig) *Quota {
	if config == nil {
		config = DefaultQuotaConfig()
	}
	return &Quota{
		redis:  redisClient,
		config: config,
		prefix: "import:quota",
	}
}

// Allow consumes one import from the user's quota and reports whether the
// user is still under the limit. On Redis errors the quota fails open so an
// outage does not take imports down with it.
func (q *Quota) Allow(ctx context.Context, userID int64) (bool, error) {
	key := fmt.Sprintf("%s:%d", q.prefix, userID)

	pipe := q.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, q.config.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}
	return incr.Val() <= int64(q.config.ImportsPerWindow), nil
}

// Remaining returns how many imports the user has left in the window.
func (q *Quota) Remaining(ctx context.Context, userID int64) (int, error) {
	key := fmt.Sprintf("%s:%d", q.prefix, userID)

	count, err := q.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		return q.config.ImportsPerWindow, nil
	} else if err != nil {
		return 0, err
	}

	remaining := q.config.ImportsPerWindow - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears a user's quota (for testing or admin purposes)
func (q *Quota) Reset(ctx context.Context, userID int64) error {
	return q.redis.Del(ctx, fmt.Sprintf("%s:%d", q.prefix, userID)).Err()
}
