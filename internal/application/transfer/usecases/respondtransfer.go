package usecases

import (
	"context"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type RespondTransferCommand struct {
	TransferID string
	Accepted   bool
	Reason     string
	// RespondedBy is the authenticated caller. Only the recipient may respond
	// unless AnyParty is set.
	RespondedBy string
	AnyParty    bool
}

type RespondTransferExecutor interface {
	Execute(ctx context.Context, cmd RespondTransferCommand) (*dto.TransferDTO, error)
}

type RespondTransferUseCase struct {
	transferRepo transfer.Repository
	store        conversation.Store
	txManager    TransactionManager
	sanitizer    TextSanitizer
	effects      sideEffects
	logger       logger.Interface
}

func NewRespondTransferUseCase(
	transferRepo transfer.Repository,
	store conversation.Store,
	txManager TransactionManager,
	sanitizer TextSanitizer,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *RespondTransferUseCase {
	return &RespondTransferUseCase{
		transferRepo: transferRepo,
		store:        store,
		txManager:    txManager,
		sanitizer:    sanitizer,
		effects:      newSideEffects(notifier, events, logger),
		logger:       logger,
	}
}

func (uc *RespondTransferUseCase) Execute(ctx context.Context, cmd RespondTransferCommand) (*dto.TransferDTO, error) {
	uc.logger.Infow("executing respond transfer use case",
		"transfer_id", cmd.TransferID,
		"accepted", cmd.Accepted,
		"responded_by", cmd.RespondedBy)

	if strings.TrimSpace(cmd.TransferID) == "" {
		return nil, errors.NewValidationError("transfer id is required")
	}
	if strings.TrimSpace(cmd.RespondedBy) == "" {
		return nil, errors.NewValidationError("responding operator is required")
	}

	reason := cmd.Reason
	if uc.sanitizer != nil {
		reason = uc.sanitizer.Text(reason)
	}

	var (
		request    *transfer.TransferRequest
		handedOver bool
		previous   string
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = uc.transferRepo.GetBySID(ctx, cmd.TransferID)
		if err != nil {
			return err
		}
		if !cmd.AnyParty && cmd.RespondedBy != request.ToOperatorID() {
			return errors.NewForbiddenError("only the requested operator can respond to this transfer")
		}

		now := biztime.NowUTC()
		if cmd.Accepted {
			err = request.Accept(reason, now)
		} else {
			err = request.Reject(reason, now)
		}
		if err != nil {
			return err
		}

		if err := uc.transferRepo.Update(ctx, request); err != nil {
			return err
		}

		if cmd.Accepted && uc.store != nil {
			previous = uc.currentOperator(ctx, request)
			// last step before commit; a store failure rolls the ledger back
			if err := uc.store.SetOperatorOfRecord(ctx, request.ConversationID(), request.ToOperatorID()); err != nil {
				uc.logger.Errorw("failed to set operator of record",
					"conversation_id", request.ConversationID(),
					"operator_id", request.ToOperatorID(),
					"error", err)
				return errors.NewInternalError("failed to hand over conversation")
			}
			handedOver = true
		}
		return nil
	})
	if err != nil {
		if handedOver {
			uc.restoreOperator(ctx, request, previous)
		}
		mapped := mapTransferError(err)
		if errors.GetAppError(mapped).Type == errors.ErrorTypeInternal {
			uc.logger.Errorw("failed to respond to transfer", "transfer_id", cmd.TransferID, "error", err)
		}
		return nil, mapped
	}

	result := dto.ToTransferDTO(request)
	uc.effects.notifyOperator(ctx, request.FromOperatorID(), protocol.EventTransferResponded,
		&dto.TransferRespondedPayload{Transfer: result, Accepted: cmd.Accepted})

	if cmd.Accepted {
		uc.effects.notifyOperator(ctx, request.ToOperatorID(), protocol.EventTransferCompleted, result)
		uc.effects.audit(ctx, EventTransferAccepted, request.ConversationID(), result)
	} else {
		uc.effects.audit(ctx, EventTransferRejected, request.ConversationID(), result)
	}

	uc.logger.Infow("transfer resolved",
		"transfer_id", request.SID(),
		"status", request.Status().String())

	return result, nil
}

// currentOperator reads the operator of record before the hand-off, falling
// back to the requester.
func (uc *RespondTransferUseCase) currentOperator(ctx context.Context, request *transfer.TransferRequest) string {
	current, err := uc.store.OperatorOf(ctx, request.ConversationID())
	if err != nil || current == "" {
		return request.FromOperatorID()
	}
	return current
}

// restoreOperator points the conversation back at its previous operator when
// the ledger commit failed after the store was already updated.
func (uc *RespondTransferUseCase) restoreOperator(ctx context.Context, request *transfer.TransferRequest, previous string) {
	ctx = context.WithoutCancel(ctx)
	if err := uc.store.SetOperatorOfRecord(ctx, request.ConversationID(), previous); err != nil {
		uc.logger.Errorw("failed to restore operator of record after aborted hand-off",
			"conversation_id", request.ConversationID(),
			"operator_id", previous,
			"error", err)
		return
	}
	uc.logger.Warnw("hand-off rolled back",
		"transfer_id", request.SID(),
		"conversation_id", request.ConversationID(),
		"operator_id", previous)
}
