package queue

import "time"

// DefaultServiceTime is the assumed handling time per position ahead.
const DefaultServiceTime = 300 * time.Second

// Ahead reports whether a is served before b: higher priority first, then
// earlier queuedAt, then lower storage id so equal timestamps stay FIFO.
func Ahead(a, b *Entry) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if !a.queuedAt.Equal(b.queuedAt) {
		return a.queuedAt.Before(b.queuedAt)
	}
	return a.id < b.id
}

// Position is an entry's standing in the wait-list.
type Position struct {
	Position      int
	EstimatedWait time.Duration
	TotalInQueue  int
}

// EstimateWait is a deterministic heuristic, position × service time. It is
// an approximation for display, not a promise.
func EstimateWait(position int, serviceTime time.Duration) time.Duration {
	if position < 1 {
		return 0
	}
	if serviceTime <= 0 {
		serviceTime = DefaultServiceTime
	}
	return time.Duration(position) * serviceTime
}

// NewPosition builds a Position from the count of queued entries ranked ahead.
func NewPosition(ahead, total int, serviceTime time.Duration) Position {
	pos := ahead + 1
	return Position{
		Position:      pos,
		EstimatedWait: EstimateWait(pos, serviceTime),
		TotalInQueue:  total,
	}
}

// Stats aggregates the queue for dashboards.
type Stats struct {
	TotalQueued     int64
	AverageWaitTime time.Duration
}
