// Package cache provides an optional read cache for branch catalog
// snapshots served by the HTTP list endpoint. Mutations invalidate the
// branch key; a miss falls through to the store.
package cache

import (
	"context"
	"time"
)

// SnapshotCache caches the serialized catalog snapshot per branch.
type SnapshotCache interface {
	Get(ctx context.Context, branchID string) ([]byte, bool, error)
	Set(ctx context.Context, branchID string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, branchID string) error
}

// Noop is the cache used when no redis address is configured.
type Noop struct{}

// Get always misses.
func (Noop) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the payload.
func (Noop) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }

// Invalidate is a no-op.
func (Noop) Invalidate(_ context.Context, _ string) error { return nil }
