// Package store persists at most one slideshow snapshot at a time.
package store

import (
	"context"

	"github.com/wenqig/storyboard/backend/internal/snapshot"
)

// Store is the single-slot durable store for the current snapshot. Get
// returns (nil, nil) when no snapshot is stored. All operations are
// idempotent and safe to call before any schema exists; initialization is
// lazy and cached for the process lifetime.
type Store interface {
	Put(ctx context.Context, rec *snapshot.Record) error
	Get(ctx context.Context) (*snapshot.Record, error)
	Clear(ctx context.Context) error
}
