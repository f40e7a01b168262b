package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/id"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type EnqueueCommand struct {
	VisitorID      string
	ConversationID string
	Priority       int
	Tags           []string
}

type EnqueueResult struct {
	Entry    *dto.QueueEntryDTO `json:"entry"`
	Position *dto.PositionDTO   `json:"position"`
}

type EnqueueExecutor interface {
	Execute(ctx context.Context, cmd EnqueueCommand) (*EnqueueResult, error)
}

type EnqueueUseCase struct {
	queueRepo   queue.Repository
	txManager   TransactionManager
	serviceTime time.Duration
	effects     sideEffects
	logger      logger.Interface
}

func NewEnqueueUseCase(
	queueRepo queue.Repository,
	txManager TransactionManager,
	serviceTime time.Duration,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *EnqueueUseCase {
	return &EnqueueUseCase{
		queueRepo:   queueRepo,
		txManager:   txManager,
		serviceTime: serviceTime,
		effects:     newSideEffects(notifier, events, logger),
		logger:      logger,
	}
}

func (uc *EnqueueUseCase) Execute(ctx context.Context, cmd EnqueueCommand) (*EnqueueResult, error) {
	uc.logger.Infow("executing enqueue use case",
		"visitor_id", cmd.VisitorID,
		"conversation_id", cmd.ConversationID,
		"priority", cmd.Priority)

	if strings.TrimSpace(cmd.VisitorID) == "" {
		return nil, errors.NewValidationError("visitor id is required")
	}
	if strings.TrimSpace(cmd.ConversationID) == "" {
		return nil, errors.NewValidationError("conversation id is required")
	}

	existing, err := uc.queueRepo.GetActiveByVisitor(ctx, cmd.VisitorID)
	if err != nil {
		uc.logger.Errorw("failed to look up active queue entry", "visitor_id", cmd.VisitorID, "error", err)
		return nil, errors.NewInternalError("failed to enqueue visitor")
	}
	if existing != nil {
		return nil, errors.NewConflictError("visitor is already in the queue", existing.SID())
	}

	sid, err := id.NewQueueEntryID()
	if err != nil {
		uc.logger.Errorw("failed to generate queue entry id", "error", err)
		return nil, errors.NewInternalError("failed to enqueue visitor")
	}

	entry, err := queue.NewEntry(sid, cmd.VisitorID, cmd.ConversationID, cmd.Priority, cmd.Tags, biztime.NowUTC())
	if err != nil {
		return nil, mapQueueError(err)
	}

	var position queue.Position
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.queueRepo.Create(ctx, entry); err != nil {
			return err
		}
		ahead, err := uc.queueRepo.CountAhead(ctx, entry)
		if err != nil {
			return err
		}
		total, err := uc.queueRepo.CountQueued(ctx)
		if err != nil {
			return err
		}
		position = queue.NewPosition(int(ahead), int(total), uc.serviceTime)
		entry.SetEstimatedWait(position.EstimatedWait)
		return uc.queueRepo.Update(ctx, entry)
	})
	if err != nil {
		if !stderrors.Is(err, queue.ErrActiveEntry) {
			uc.logger.Errorw("failed to persist queue entry", "visitor_id", cmd.VisitorID, "error", err)
		}
		return nil, mapQueueError(err)
	}

	result := &EnqueueResult{
		Entry:    dto.ToQueueEntryDTO(entry),
		Position: dto.ToPositionDTO(entry.SID(), position),
	}

	uc.effects.broadcast(ctx, protocol.EventQueueEntryAdded,
		&dto.QueueEntryAddedPayload{Entry: result.Entry, Position: result.Position})
	uc.effects.broadcast(ctx, protocol.EventQueueStatus,
		&dto.QueueStatusPayload{TotalQueued: int64(position.TotalInQueue)})
	uc.effects.audit(ctx, EventQueueEntryAdded, entry.ConversationID(), result.Entry)

	uc.logger.Infow("visitor queued",
		"queue_id", entry.SID(),
		"position", position.Position,
		"total_in_queue", position.TotalInQueue)

	return result, nil
}
