package usecases

import (
	"context"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type CancelTransferCommand struct {
	TransferID string
	// CancelledBy is the authenticated caller. Only the requester may cancel
	// unless AnyParty is set.
	CancelledBy string
	AnyParty    bool
}

type CancelTransferExecutor interface {
	Execute(ctx context.Context, cmd CancelTransferCommand) (*dto.TransferDTO, error)
}

type CancelTransferUseCase struct {
	transferRepo transfer.Repository
	effects      sideEffects
	logger       logger.Interface
}

func NewCancelTransferUseCase(
	transferRepo transfer.Repository,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *CancelTransferUseCase {
	return &CancelTransferUseCase{
		transferRepo: transferRepo,
		effects:      newSideEffects(notifier, events, logger),
		logger:       logger,
	}
}

func (uc *CancelTransferUseCase) Execute(ctx context.Context, cmd CancelTransferCommand) (*dto.TransferDTO, error) {
	uc.logger.Infow("executing cancel transfer use case",
		"transfer_id", cmd.TransferID,
		"cancelled_by", cmd.CancelledBy)

	if strings.TrimSpace(cmd.TransferID) == "" {
		return nil, errors.NewValidationError("transfer id is required")
	}
	if strings.TrimSpace(cmd.CancelledBy) == "" {
		return nil, errors.NewValidationError("cancelling operator is required")
	}

	request, err := uc.transferRepo.GetBySID(ctx, cmd.TransferID)
	if err != nil {
		return nil, mapTransferError(err)
	}
	if !cmd.AnyParty && cmd.CancelledBy != request.FromOperatorID() {
		return nil, errors.NewForbiddenError("only the requesting operator can cancel this transfer")
	}

	if err := request.Cancel(); err != nil {
		return nil, mapTransferError(err)
	}

	if err := uc.transferRepo.Update(ctx, request); err != nil {
		uc.logger.Warnw("failed to cancel transfer", "transfer_id", cmd.TransferID, "error", err)
		return nil, mapTransferError(err)
	}

	result := dto.ToTransferDTO(request)
	uc.effects.notifyOperator(ctx, request.ToOperatorID(), protocol.EventTransferCancelled, result)
	uc.effects.audit(ctx, EventTransferCancelled, request.ConversationID(), result)

	uc.logger.Infow("transfer cancelled", "transfer_id", request.SID())

	return result, nil
}
