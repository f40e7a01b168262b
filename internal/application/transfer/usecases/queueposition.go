package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type QueuePositionQuery struct {
	QueueID string
}

type QueuePositionExecutor interface {
	Execute(ctx context.Context, query QueuePositionQuery) (*dto.PositionDTO, error)
}

type QueuePositionUseCase struct {
	queueRepo   queue.Repository
	serviceTime time.Duration
	logger      logger.Interface
}

func NewQueuePositionUseCase(queueRepo queue.Repository, serviceTime time.Duration, logger logger.Interface) *QueuePositionUseCase {
	return &QueuePositionUseCase{queueRepo: queueRepo, serviceTime: serviceTime, logger: logger}
}

func (uc *QueuePositionUseCase) Execute(ctx context.Context, query QueuePositionQuery) (*dto.PositionDTO, error) {
	if strings.TrimSpace(query.QueueID) == "" {
		return nil, errors.NewValidationError("queue id is required")
	}

	entry, err := uc.queueRepo.GetBySID(ctx, query.QueueID)
	if err != nil {
		return nil, mapQueueError(err)
	}
	if entry.Status() != queue.StatusQueued {
		return nil, errors.NewInvalidStateError("queue entry is not waiting", entry.Status().String())
	}

	ahead, err := uc.queueRepo.CountAhead(ctx, entry)
	if err != nil {
		uc.logger.Errorw("failed to count entries ahead", "queue_id", query.QueueID, "error", err)
		return nil, errors.NewInternalError("failed to compute queue position")
	}
	total, err := uc.queueRepo.CountQueued(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count queue", "error", err)
		return nil, errors.NewInternalError("failed to compute queue position")
	}

	return dto.ToPositionDTO(entry.SID(), queue.NewPosition(int(ahead), int(total), uc.serviceTime)), nil
}

type QueueStatsExecutor interface {
	Execute(ctx context.Context) (*dto.QueueStatsDTO, error)
}

type QueueStatsUseCase struct {
	queueRepo queue.Repository
	logger    logger.Interface
}

func NewQueueStatsUseCase(queueRepo queue.Repository, logger logger.Interface) *QueueStatsUseCase {
	return &QueueStatsUseCase{queueRepo: queueRepo, logger: logger}
}

func (uc *QueueStatsUseCase) Execute(ctx context.Context) (*dto.QueueStatsDTO, error) {
	total, err := uc.queueRepo.CountQueued(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count queue", "error", err)
		return nil, errors.NewInternalError("failed to compute queue stats")
	}
	avg, err := uc.queueRepo.AverageWait(ctx)
	if err != nil {
		uc.logger.Errorw("failed to compute average wait", "error", err)
		return nil, errors.NewInternalError("failed to compute queue stats")
	}

	return dto.ToQueueStatsDTO(queue.Stats{TotalQueued: total, AverageWaitTime: avg}), nil
}
