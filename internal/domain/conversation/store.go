// Package conversation is the contract with the service that owns conversations.
// This core only reads and re-points the operator of record.
package conversation

import (
	"context"
	"errors"
)

var ErrConversationNotFound = errors.New("conversation not found")

type Store interface {
	// OperatorOf returns the operator currently handling the conversation,
	// or ErrConversationNotFound when none is recorded.
	OperatorOf(ctx context.Context, conversationID string) (string, error)
	SetOperatorOfRecord(ctx context.Context, conversationID, operatorID string) error
}
