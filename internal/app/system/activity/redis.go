// internal/app/system/activity/redis.go
package activity

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "studyclub:activity:"

// RedisTracker stores the last admin heartbeat as an expiring Redis key so
// any server instance can observe it. The key's TTL doubles as the
// inactivity signal: a missing key means the admin has been silent longer
// than the retention window.
type RedisTracker struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisTracker creates a tracker that keeps heartbeats for retention.
// Retention should comfortably exceed the inactivity threshold so LastSeen
// can still report a stale-but-present timestamp.
func NewRedisTracker(client *redis.Client, retention time.Duration) *RedisTracker {
	return &RedisTracker{client: client, retention: retention}
}

func (r *RedisTracker) Touch(ctx context.Context, partyCode string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return r.client.Set(ctx, keyPrefix+partyCode, now, r.retention).Err()
}

func (r *RedisTracker) LastSeen(ctx context.Context, partyCode string) (time.Time, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+partyCode).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (r *RedisTracker) Forget(ctx context.Context, partyCode string) error {
	return r.client.Del(ctx, keyPrefix+partyCode).Err()
}
