package adapters

import (
	"context"

	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// EventOperatorAssigned tells the conversation service who now handles a conversation.
const EventOperatorAssigned = "conversation.operator_assigned.v1"

// EventPublisher emits an event onto the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// OperatorAssignedData is the payload of conversation.operator_assigned.v1.
type OperatorAssignedData struct {
	ConversationID string `json:"conversation_id"`
	OperatorID     string `json:"operator_id"`
}

// ConversationStoreAdapter adapts the Redis registry to conversation.Store and
// announces every operator-of-record change to the owning service.
type ConversationStoreAdapter struct {
	registry  conversation.Store
	publisher EventPublisher
	logger    logger.Interface
}

// NewConversationStoreAdapter creates a new ConversationStoreAdapter. publisher may be nil.
func NewConversationStoreAdapter(registry conversation.Store, publisher EventPublisher, log logger.Interface) *ConversationStoreAdapter {
	return &ConversationStoreAdapter{registry: registry, publisher: publisher, logger: log}
}

func (a *ConversationStoreAdapter) OperatorOf(ctx context.Context, conversationID string) (string, error) {
	return a.registry.OperatorOf(ctx, conversationID)
}

// SetOperatorOfRecord writes the registry first; the event is sent only after
// the write succeeded and its failure is not returned.
func (a *ConversationStoreAdapter) SetOperatorOfRecord(ctx context.Context, conversationID, operatorID string) error {
	if err := a.registry.SetOperatorOfRecord(ctx, conversationID, operatorID); err != nil {
		return err
	}
	if a.publisher == nil {
		return nil
	}

	data := &OperatorAssignedData{ConversationID: conversationID, OperatorID: operatorID}
	if err := a.publisher.Publish(ctx, EventOperatorAssigned, conversationID, data); err != nil {
		a.logger.Warnw("failed to publish operator assigned event",
			"conversation_id", conversationID,
			"operator_id", operatorID,
			"error", err)
	}
	return nil
}
