package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	"github.com/Saaayurii/Chat-sub000/internal/shared/goroutine"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/id"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type RequestTransferCommand struct {
	FromOperatorID string
	ToOperatorID   string
	ConversationID string
	VisitorID      string
	Reason         string
	Note           string
}

type RequestTransferExecutor interface {
	Execute(ctx context.Context, cmd RequestTransferCommand) (*dto.TransferDTO, error)
}

type RequestTransferUseCase struct {
	transferRepo transfer.Repository
	store        conversation.Store
	directory    operator.Directory
	mailer       Mailer
	sanitizer    TextSanitizer
	effects      sideEffects
	logger       logger.Interface
}

func NewRequestTransferUseCase(
	transferRepo transfer.Repository,
	store conversation.Store,
	directory operator.Directory,
	mailer Mailer,
	sanitizer TextSanitizer,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *RequestTransferUseCase {
	return &RequestTransferUseCase{
		transferRepo: transferRepo,
		store:        store,
		directory:    directory,
		mailer:       mailer,
		sanitizer:    sanitizer,
		effects:      newSideEffects(notifier, events, logger),
		logger:       logger,
	}
}

func (uc *RequestTransferUseCase) Execute(ctx context.Context, cmd RequestTransferCommand) (*dto.TransferDTO, error) {
	uc.logger.Infow("executing request transfer use case",
		"from_operator_id", cmd.FromOperatorID,
		"to_operator_id", cmd.ToOperatorID,
		"conversation_id", cmd.ConversationID)

	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	if cmd.FromOperatorID == cmd.ToOperatorID {
		return nil, errors.NewInvalidOperationError("cannot transfer a conversation to yourself")
	}

	if err := uc.checkOperatorOfRecord(ctx, cmd); err != nil {
		return nil, err
	}

	existing, err := uc.transferRepo.GetActiveByConversation(ctx, cmd.ConversationID)
	if err != nil {
		uc.logger.Errorw("failed to look up active transfer", "error", err, "conversation_id", cmd.ConversationID)
		return nil, errors.NewInternalError("failed to create transfer request")
	}
	if existing != nil {
		return nil, errors.NewConflictError("an active transfer already exists for this conversation", existing.SID())
	}

	reason, note := cmd.Reason, cmd.Note
	if uc.sanitizer != nil {
		reason = uc.sanitizer.Text(reason)
		note = uc.sanitizer.Text(note)
	}

	sid, err := id.NewTransferID()
	if err != nil {
		uc.logger.Errorw("failed to generate transfer id", "error", err)
		return nil, errors.NewInternalError("failed to create transfer request")
	}

	request, err := transfer.NewTransferRequest(sid, cmd.FromOperatorID, cmd.ToOperatorID,
		cmd.ConversationID, cmd.VisitorID, reason, note, biztime.NowUTC())
	if err != nil {
		return nil, mapTransferError(err)
	}

	if err := uc.transferRepo.Create(ctx, request); err != nil {
		if stderrors.Is(err, transfer.ErrActiveTransfer) {
			// lost the race against a concurrent request for the same conversation
			return nil, errors.NewConflictError("an active transfer already exists for this conversation")
		}
		uc.logger.Errorw("failed to persist transfer request", "error", err)
		return nil, errors.NewInternalError("failed to create transfer request")
	}

	result := dto.ToTransferDTO(request)
	uc.effects.notifyOperator(ctx, request.ToOperatorID(), protocol.EventTransferOffered, result)
	uc.effects.audit(ctx, EventTransferRequested, request.ConversationID(), result)
	uc.mailIfOffline(request)

	uc.logger.Infow("transfer requested",
		"transfer_id", request.SID(),
		"conversation_id", request.ConversationID())

	return result, nil
}

func (uc *RequestTransferUseCase) validateCommand(cmd RequestTransferCommand) error {
	if strings.TrimSpace(cmd.FromOperatorID) == "" {
		return errors.NewValidationError("from operator id is required")
	}
	if strings.TrimSpace(cmd.ToOperatorID) == "" {
		return errors.NewValidationError("to operator id is required")
	}
	if strings.TrimSpace(cmd.ConversationID) == "" {
		return errors.NewValidationError("conversation id is required")
	}
	if strings.TrimSpace(cmd.VisitorID) == "" {
		return errors.NewValidationError("visitor id is required")
	}
	return nil
}

// checkOperatorOfRecord refuses a transfer to the operator who already owns the conversation.
// An unavailable conversation store does not block the request.
func (uc *RequestTransferUseCase) checkOperatorOfRecord(ctx context.Context, cmd RequestTransferCommand) error {
	if uc.store == nil {
		return nil
	}
	current, err := uc.store.OperatorOf(ctx, cmd.ConversationID)
	if err != nil {
		if !stderrors.Is(err, conversation.ErrConversationNotFound) {
			uc.logger.Warnw("failed to read operator of record", "error", err, "conversation_id", cmd.ConversationID)
		}
		return nil
	}
	if current == cmd.ToOperatorID {
		return errors.NewInvalidOperationError("target operator already handles this conversation")
	}
	return nil
}

// mailIfOffline emails the target operator in the background when they have no live session.
func (uc *RequestTransferUseCase) mailIfOffline(request *transfer.TransferRequest) {
	if uc.mailer == nil || uc.directory == nil {
		return
	}

	goroutine.SafeGo(uc.logger, "transfer-offer-mail", func() {
		ctx := context.Background()
		target, err := uc.directory.Get(ctx, request.ToOperatorID())
		if err != nil {
			if !stderrors.Is(err, operator.ErrOperatorNotFound) {
				uc.logger.Warnw("failed to read target operator for offer mail", "error", err)
			}
			return
		}
		if target.Online || target.Email == "" {
			return
		}

		subject, body := offerMail(request)
		if err := uc.mailer.Send(ctx, []string{target.Email}, subject, body); err != nil {
			uc.logger.Warnw("failed to send transfer offer mail",
				"transfer_id", request.SID(),
				"error", err)
			return
		}
		uc.logger.Infow("transfer offer mailed", "transfer_id", request.SID(), "to_operator_id", request.ToOperatorID())
	})
}

func offerMail(request *transfer.TransferRequest) (string, string) {
	reason := request.Reason()
	if reason == "" {
		reason = "(none given)"
	}
	subject := fmt.Sprintf("Conversation transfer request from %s", request.FromOperatorID())
	body := fmt.Sprintf(`A conversation is waiting for you.

Operator **%s** wants to hand over conversation **%s**.

**Reason:** %s
%s

Open the operator console to accept or reject transfer %s.
`, request.FromOperatorID(), request.ConversationID(), reason, request.Note(), request.SID())
	return subject, body
}
