package transfer

import "context"

// Repository is the durable ledger of transfer requests. Rows are never deleted.
type Repository interface {
	// Create fails with ErrActiveTransfer when the conversation already has
	// an active request; the check is enforced by the store.
	Create(ctx context.Context, t *TransferRequest) error
	GetBySID(ctx context.Context, sid string) (*TransferRequest, error)
	GetActiveByConversation(ctx context.Context, conversationID string) (*TransferRequest, error)
	// Update persists a state change and fails with ErrConcurrentUpdate when
	// the stored version moved since t was loaded.
	Update(ctx context.Context, t *TransferRequest) error
	// ListByOperator returns requests where the operator is either party, newest first.
	ListByOperator(ctx context.Context, operatorID string, limit int) ([]*TransferRequest, error)
}
