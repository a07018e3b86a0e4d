package cache

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisSnapshotCache stores catalog snapshots in redis.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache connects to redis at addr.
func NewRedisSnapshotCache(addr, password string, db int) *RedisSnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSnapshotCache{client: client}
}

// Ping verifies the connection.
func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

func snapshotKey(branchID string) string {
	return fmt.Sprintf("catalog:snapshot:%s", branchID)
}

// Get returns the cached snapshot for a branch, if present.
func (c *RedisSnapshotCache) Get(ctx context.Context, branchID string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, snapshotKey(branchID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores the snapshot with a TTL.
func (c *RedisSnapshotCache) Set(ctx context.Context, branchID string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}
	return c.client.Set(ctx, snapshotKey(branchID), payload, ttl).Err()
}

// Invalidate drops the snapshot for a branch.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, branchID string) error {
	return c.client.Del(ctx, snapshotKey(branchID)).Err()
}
