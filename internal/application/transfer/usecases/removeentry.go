package usecases

import (
	"context"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type RemoveEntryCommand struct {
	QueueID string
}

type RemoveEntryExecutor interface {
	Execute(ctx context.Context, cmd RemoveEntryCommand) (*dto.QueueEntryDTO, error)
}

type RemoveEntryUseCase struct {
	queueRepo queue.Repository
	effects   sideEffects
	logger    logger.Interface
}

func NewRemoveEntryUseCase(
	queueRepo queue.Repository,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *RemoveEntryUseCase {
	return &RemoveEntryUseCase{
		queueRepo: queueRepo,
		effects:   newSideEffects(notifier, events, logger),
		logger:    logger,
	}
}

// Execute cancels the entry whatever its status. Removing a cancelled entry succeeds without changes.
func (uc *RemoveEntryUseCase) Execute(ctx context.Context, cmd RemoveEntryCommand) (*dto.QueueEntryDTO, error) {
	uc.logger.Infow("executing remove queue entry use case", "queue_id", cmd.QueueID)

	if strings.TrimSpace(cmd.QueueID) == "" {
		return nil, errors.NewValidationError("queue id is required")
	}

	entry, err := uc.queueRepo.GetBySID(ctx, cmd.QueueID)
	if err != nil {
		return nil, mapQueueError(err)
	}

	if !entry.Cancel() {
		return dto.ToQueueEntryDTO(entry), nil
	}

	if err := uc.queueRepo.Update(ctx, entry); err != nil {
		uc.logger.Warnw("failed to remove queue entry", "queue_id", cmd.QueueID, "error", err)
		return nil, mapQueueError(err)
	}

	result := dto.ToQueueEntryDTO(entry)
	uc.effects.broadcast(ctx, protocol.EventQueueEntryRemoved, result)
	uc.effects.broadcastQueueStatus(ctx, uc.queueRepo)
	uc.effects.audit(ctx, EventQueueEntryRemoved, entry.ConversationID(), result)

	uc.logger.Infow("queue entry removed", "queue_id", entry.SID())

	return result, nil
}
