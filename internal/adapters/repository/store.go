// Package repository defines the render record archive interface and
// its SQLite implementation. The archive is the durable tail of the
// pipeline: the tracker's ring forgets, the archive does not.
package repository

import (
	"context"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
)

// Archive provides durable read/write access to render records.
type Archive interface {
	// Append persists one record. Appending the same record id twice
	// overwrites, so retries are safe.
	Append(ctx context.Context, rec *model.RenderRecord) error

	// RecentRecords returns up to limit records ordered newest first.
	RecentRecords(ctx context.Context, limit int) ([]*model.RenderRecord, error)

	// ComponentRecords returns up to limit records for one uid, newest
	// first. An unknown uid yields an empty slice, not an error.
	ComponentRecords(ctx context.Context, uid string, limit int) ([]*model.RenderRecord, error)

	// Count returns the number of archived records.
	Count(ctx context.Context) (int, error)

	// Purge deletes records older than the cutoff and returns how many
	// were removed.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases the underlying store.
	Close() error
}
