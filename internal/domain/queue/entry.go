// Package queue holds the wait-list entry aggregate and the rank order the
// queue is served in.
package queue

import (
	"fmt"
	"time"
)

type Entry struct {
	id                 uint
	sid                string
	visitorID          string
	conversationID     string
	priority           int
	tags               []string
	status             Status
	queuedAt           time.Time
	assignedAt         *time.Time
	assignedOperatorID string
	estimatedWait      time.Duration
	version            int
}

func NewEntry(sid, visitorID, conversationID string, priority int, tags []string, now time.Time) (*Entry, error) {
	if visitorID == "" || conversationID == "" {
		return nil, ErrMissingReferences
	}
	if sid == "" {
		return nil, fmt.Errorf("queue entry SID is required")
	}

	return &Entry{
		sid:            sid,
		visitorID:      visitorID,
		conversationID: conversationID,
		priority:       priority,
		tags:           NormalizeTags(tags),
		status:         StatusQueued,
		queuedAt:       now,
		version:        1,
	}, nil
}

func ReconstructEntry(
	id uint,
	sid string,
	visitorID, conversationID string,
	priority int,
	tags []string,
	status Status,
	queuedAt time.Time,
	assignedAt *time.Time,
	assignedOperatorID string,
	estimatedWait time.Duration,
	version int,
) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("queue entry ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	if tags == nil {
		tags = []string{}
	}

	return &Entry{
		id:                 id,
		sid:                sid,
		visitorID:          visitorID,
		conversationID:     conversationID,
		priority:           priority,
		tags:               tags,
		status:             status,
		queuedAt:           queuedAt,
		assignedAt:         assignedAt,
		assignedOperatorID: assignedOperatorID,
		estimatedWait:      estimatedWait,
		version:            version,
	}, nil
}

func (e *Entry) ID() uint                     { return e.id }
func (e *Entry) SID() string                  { return e.sid }
func (e *Entry) VisitorID() string            { return e.visitorID }
func (e *Entry) ConversationID() string       { return e.conversationID }
func (e *Entry) Priority() int                { return e.priority }
func (e *Entry) Tags() []string               { return e.tags }
func (e *Entry) Status() Status               { return e.status }
func (e *Entry) QueuedAt() time.Time          { return e.queuedAt }
func (e *Entry) AssignedAt() *time.Time       { return e.assignedAt }
func (e *Entry) AssignedOperatorID() string   { return e.assignedOperatorID }
func (e *Entry) EstimatedWait() time.Duration { return e.estimatedWait }
func (e *Entry) Version() int                 { return e.version }

func (e *Entry) SetID(id uint) {
	e.id = id
}

func (e *Entry) SetEstimatedWait(d time.Duration) {
	e.estimatedWait = d
}

// Assign grants the entry to an operator.
func (e *Entry) Assign(operatorID string, now time.Time) error {
	if operatorID == "" {
		return ErrMissingOperator
	}
	if !e.status.CanTransitionTo(StatusAssigned) {
		return ErrNotQueued
	}
	e.status = StatusAssigned
	e.assignedAt = &now
	e.assignedOperatorID = operatorID
	return nil
}

// Cancel withdraws the entry whatever its prior status. It reports whether
// anything changed; cancelling a cancelled entry is a no-op.
func (e *Entry) Cancel() bool {
	if e.status == StatusCancelled {
		return false
	}
	e.status = StatusCancelled
	return true
}

// WaitTime is how long the entry waited before assignment; zero if it never was.
func (e *Entry) WaitTime() time.Duration {
	if e.assignedAt == nil {
		return 0
	}
	return e.assignedAt.Sub(e.queuedAt)
}

func (e *Entry) IncrementVersion() {
	e.version++
}
