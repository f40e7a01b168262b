package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const defaultAssignRetries = 3

type AssignNextCommand struct {
	OperatorID string
}

type AssignNextExecutor interface {
	// Execute returns nil without error when the queue is empty.
	Execute(ctx context.Context, cmd AssignNextCommand) (*dto.QueueEntryDTO, error)
}

type AssignNextUseCase struct {
	queueRepo queue.Repository
	store     conversation.Store
	retries   int
	effects   sideEffects
	logger    logger.Interface
}

func NewAssignNextUseCase(
	queueRepo queue.Repository,
	store conversation.Store,
	retries int,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *AssignNextUseCase {
	if retries <= 0 {
		retries = defaultAssignRetries
	}
	return &AssignNextUseCase{
		queueRepo: queueRepo,
		store:     store,
		retries:   retries,
		effects:   newSideEffects(notifier, events, logger),
		logger:    logger,
	}
}

func (uc *AssignNextUseCase) Execute(ctx context.Context, cmd AssignNextCommand) (*dto.QueueEntryDTO, error) {
	uc.logger.Infow("executing assign next use case", "operator_id", cmd.OperatorID)

	if strings.TrimSpace(cmd.OperatorID) == "" {
		return nil, errors.NewValidationError("operator id is required")
	}

	entry, err := uc.claimHead(ctx, cmd.OperatorID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		uc.logger.Infow("queue is empty", "operator_id", cmd.OperatorID)
		return nil, nil
	}

	if uc.store != nil {
		if err := uc.store.SetOperatorOfRecord(ctx, entry.ConversationID(), cmd.OperatorID); err != nil {
			uc.logger.Warnw("failed to set operator of record",
				"conversation_id", entry.ConversationID(),
				"operator_id", cmd.OperatorID,
				"error", err)
		}
	}

	result := dto.ToQueueEntryDTO(entry)
	uc.effects.notifyOperator(ctx, cmd.OperatorID, protocol.EventQueueEntryAssigned, result)
	uc.effects.broadcastQueueStatus(ctx, uc.queueRepo)
	uc.effects.audit(ctx, EventQueueEntryAssigned, entry.ConversationID(), result)

	uc.logger.Infow("queue entry assigned",
		"queue_id", entry.SID(),
		"operator_id", cmd.OperatorID,
		"waited", entry.WaitTime().String())

	return result, nil
}

// claimHead assigns the highest-ranked entry. A lost race against another
// operator re-reads the head, up to uc.retries attempts.
func (uc *AssignNextUseCase) claimHead(ctx context.Context, operatorID string) (*queue.Entry, error) {
	for attempt := 1; attempt <= uc.retries; attempt++ {
		head, err := uc.queueRepo.Head(ctx)
		if err != nil {
			uc.logger.Errorw("failed to read queue head", "error", err)
			return nil, errors.NewInternalError("failed to assign next visitor")
		}
		if head == nil {
			return nil, nil
		}

		if err := head.Assign(operatorID, biztime.NowUTC()); err != nil {
			return nil, mapQueueError(err)
		}

		err = uc.queueRepo.Update(ctx, head)
		if err == nil {
			return head, nil
		}
		if !stderrors.Is(err, queue.ErrConcurrentUpdate) {
			uc.logger.Errorw("failed to assign queue entry", "queue_id", head.SID(), "error", err)
			return nil, errors.NewInternalError("failed to assign next visitor")
		}

		uc.logger.Debugw("lost claim on queue head, retrying",
			"queue_id", head.SID(),
			"attempt", attempt)
	}

	return nil, errors.NewConflictError("queue is busy, try again")
}
