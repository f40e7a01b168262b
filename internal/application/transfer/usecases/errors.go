package usecases

import (
	stderrors "errors"

	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
)

// mapTransferError converts ledger sentinels into application errors.
func mapTransferError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, transfer.ErrTransferNotFound):
		return errors.NewNotFoundError("transfer request not found")
	case stderrors.Is(err, transfer.ErrSelfTransfer):
		return errors.NewInvalidOperationError("cannot transfer a conversation to yourself")
	case stderrors.Is(err, transfer.ErrActiveTransfer):
		return errors.NewConflictError("an active transfer already exists for this conversation")
	case stderrors.Is(err, transfer.ErrNotPending), stderrors.Is(err, transfer.ErrInvalidTransition):
		return errors.NewInvalidStateError("transfer request is no longer pending")
	case stderrors.Is(err, transfer.ErrConcurrentUpdate):
		return errors.NewInvalidStateError("transfer request was resolved concurrently")
	case stderrors.Is(err, transfer.ErrMissingParticipant):
		return errors.NewValidationError(err.Error())
	default:
		return errors.NewInternalError("transfer operation failed")
	}
}

// mapQueueError converts wait-list sentinels into application errors.
func mapQueueError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, queue.ErrEntryNotFound):
		return errors.NewNotFoundError("queue entry not found")
	case stderrors.Is(err, queue.ErrActiveEntry):
		return errors.NewConflictError("visitor is already in the queue")
	case stderrors.Is(err, queue.ErrNotQueued):
		return errors.NewInvalidStateError("queue entry is not waiting")
	case stderrors.Is(err, queue.ErrConcurrentUpdate):
		return errors.NewConflictError("queue entry was modified concurrently")
	case stderrors.Is(err, queue.ErrMissingReferences), stderrors.Is(err, queue.ErrMissingOperator):
		return errors.NewValidationError(err.Error())
	default:
		return errors.NewInternalError("queue operation failed")
	}
}
