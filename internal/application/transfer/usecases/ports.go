package usecases

import (
	"context"
)

// Notifier fans events out to operator sessions. Delivery is best-effort.
type Notifier interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// EventPublisher emits audit events to the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// TextSanitizer reduces operator-supplied text to plain text.
type TextSanitizer interface {
	Text(in string) string
}

// TransactionManager runs fn inside one store transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Audit event types, versioned like conversation.operator_assigned.v1.
const (
	EventTransferRequested  = "transfer.requested.v1"
	EventTransferAccepted   = "transfer.accepted.v1"
	EventTransferRejected   = "transfer.rejected.v1"
	EventTransferCancelled  = "transfer.cancelled.v1"
	EventQueueEntryAdded    = "queue.entry_added.v1"
	EventQueueEntryAssigned = "queue.entry_assigned.v1"
	EventQueueEntryRemoved  = "queue.entry_removed.v1"
	EventDirectAssignment   = "assignment.direct.v1"
)
