// Package transfer holds the TransferRequest aggregate: one operator's offer to
// hand a live conversation to another, and the state machine that resolves it.
package transfer

import (
	"fmt"
	"time"
)

type TransferRequest struct {
	id             uint
	sid            string
	fromOperatorID string
	toOperatorID   string
	conversationID string
	visitorID      string
	status         Status
	reason         string
	note           string
	responseReason string
	requestedAt    time.Time
	respondedAt    *time.Time
	completedAt    *time.Time
	version        int
}

// NewTransferRequest creates a pending request.
func NewTransferRequest(sid, from, to, conversationID, visitorID, reason, note string, now time.Time) (*TransferRequest, error) {
	if from == "" || to == "" || conversationID == "" || visitorID == "" {
		return nil, ErrMissingParticipant
	}
	if from == to {
		return nil, ErrSelfTransfer
	}
	if sid == "" {
		return nil, fmt.Errorf("transfer SID is required")
	}

	return &TransferRequest{
		sid:            sid,
		fromOperatorID: from,
		toOperatorID:   to,
		conversationID: conversationID,
		visitorID:      visitorID,
		status:         StatusPending,
		reason:         reason,
		note:           note,
		requestedAt:    now,
		version:        1,
	}, nil
}

// ReconstructTransferRequest rebuilds the aggregate from storage.
func ReconstructTransferRequest(
	id uint,
	sid string,
	from, to string,
	conversationID, visitorID string,
	status Status,
	reason, note, responseReason string,
	requestedAt time.Time,
	respondedAt, completedAt *time.Time,
	version int,
) (*TransferRequest, error) {
	if id == 0 {
		return nil, fmt.Errorf("transfer ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	return &TransferRequest{
		id:             id,
		sid:            sid,
		fromOperatorID: from,
		toOperatorID:   to,
		conversationID: conversationID,
		visitorID:      visitorID,
		status:         status,
		reason:         reason,
		note:           note,
		responseReason: responseReason,
		requestedAt:    requestedAt,
		respondedAt:    respondedAt,
		completedAt:    completedAt,
		version:        version,
	}, nil
}

func (t *TransferRequest) ID() uint                { return t.id }
func (t *TransferRequest) SID() string             { return t.sid }
func (t *TransferRequest) FromOperatorID() string  { return t.fromOperatorID }
func (t *TransferRequest) ToOperatorID() string    { return t.toOperatorID }
func (t *TransferRequest) ConversationID() string  { return t.conversationID }
func (t *TransferRequest) VisitorID() string       { return t.visitorID }
func (t *TransferRequest) Status() Status          { return t.status }
func (t *TransferRequest) Reason() string          { return t.reason }
func (t *TransferRequest) Note() string            { return t.note }
func (t *TransferRequest) ResponseReason() string  { return t.responseReason }
func (t *TransferRequest) RequestedAt() time.Time  { return t.requestedAt }
func (t *TransferRequest) RespondedAt() *time.Time { return t.respondedAt }
func (t *TransferRequest) CompletedAt() *time.Time { return t.completedAt }
func (t *TransferRequest) Version() int            { return t.version }

func (t *TransferRequest) SetID(id uint) {
	t.id = id
}

// Involves reports whether operatorID is either party of the request.
func (t *TransferRequest) Involves(operatorID string) bool {
	return t.fromOperatorID == operatorID || t.toOperatorID == operatorID
}

// Accept finalizes the hand-off in one step: pending, accepted, completed.
func (t *TransferRequest) Accept(reason string, now time.Time) error {
	if err := t.transition(StatusAccepted); err != nil {
		return err
	}
	if err := t.transition(StatusCompleted); err != nil {
		return err
	}
	t.responseReason = reason
	t.respondedAt = &now
	t.completedAt = &now
	return nil
}

func (t *TransferRequest) Reject(reason string, now time.Time) error {
	if err := t.transition(StatusRejected); err != nil {
		return err
	}
	t.responseReason = reason
	t.respondedAt = &now
	return nil
}

func (t *TransferRequest) Cancel() error {
	return t.transition(StatusCancelled)
}

func (t *TransferRequest) transition(next Status) error {
	if t.status.CanTransitionTo(next) {
		t.status = next
		return nil
	}
	if t.status != StatusPending {
		return ErrNotPending
	}
	return ErrInvalidTransition
}

// IncrementVersion is called by the repository after a successful write.
func (t *TransferRequest) IncrementVersion() {
	t.version++
}
