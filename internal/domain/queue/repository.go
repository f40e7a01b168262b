package queue

import (
	"context"
	"time"
)

// Repository is the durable wait-list. Entries are kept after they leave the queue.
type Repository interface {
	// Create fails with ErrActiveEntry when the visitor already holds an
	// active entry; the check is enforced by the store.
	Create(ctx context.Context, e *Entry) error
	GetBySID(ctx context.Context, sid string) (*Entry, error)
	GetActiveByVisitor(ctx context.Context, visitorID string) (*Entry, error)
	// Update fails with ErrConcurrentUpdate when the stored version moved.
	Update(ctx context.Context, e *Entry) error
	// Head returns the highest-ranked queued entry, or nil when the queue is empty.
	Head(ctx context.Context) (*Entry, error)
	// CountAhead counts queued entries ranked before e.
	CountAhead(ctx context.Context, e *Entry) (int64, error)
	CountQueued(ctx context.Context) (int64, error)
	// AverageWait averages assignedAt - queuedAt over entries that were ever assigned.
	AverageWait(ctx context.Context) (time.Duration, error)
}
