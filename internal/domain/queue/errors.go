package queue

import "errors"

var (
	ErrEntryNotFound     = errors.New("queue entry not found")
	ErrActiveEntry       = errors.New("visitor already has an active queue entry")
	ErrNotQueued         = errors.New("queue entry is not waiting")
	ErrConcurrentUpdate  = errors.New("queue entry was modified concurrently")
	ErrMissingReferences = errors.New("visitor and conversation ids are required")
	ErrMissingOperator   = errors.New("operator id is required")
)
