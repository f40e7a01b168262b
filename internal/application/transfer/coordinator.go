// Package transfer orchestrates transfer negotiation and queue assignment:
// it ties the ledger, the wait-list, operator selection and notifications
// together behind one facade used by the HTTP and WebSocket layers.
package transfer

import (
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/usecases"
	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// Dependencies are the collaborators the coordinator is built from.
// Mailer, Sanitizer, Store and Events may be nil.
type Dependencies struct {
	Transfers     transfer.Repository
	Queue         queue.Repository
	Directory     operator.Directory
	Store         conversation.Store
	TxManager     usecases.TransactionManager
	Notifier      usecases.Notifier
	Events        usecases.EventPublisher
	Mailer        usecases.Mailer
	Sanitizer     usecases.TextSanitizer
	ServiceTime   time.Duration
	AssignRetries int
	Logger        logger.Interface
}

type TransferCoordinator struct {
	RequestTransfer usecases.RequestTransferExecutor
	RespondTransfer usecases.RespondTransferExecutor
	CancelTransfer  usecases.CancelTransferExecutor
	GetTransfer     usecases.GetTransferExecutor
	History         usecases.TransferHistoryExecutor

	Enqueue       usecases.EnqueueExecutor
	QueuePosition usecases.QueuePositionExecutor
	AssignNext    usecases.AssignNextExecutor
	RemoveEntry   usecases.RemoveEntryExecutor
	QueueStats    usecases.QueueStatsExecutor

	AutoAssign usecases.AutoAssignExecutor
	BulkAssign usecases.BulkAssignExecutor
}

func NewTransferCoordinator(deps Dependencies) *TransferCoordinator {
	log := deps.Logger
	if log == nil {
		log = logger.NewLogger()
	}
	serviceTime := deps.ServiceTime
	if serviceTime <= 0 {
		serviceTime = queue.DefaultServiceTime
	}

	enqueue := usecases.NewEnqueueUseCase(deps.Queue, deps.TxManager, serviceTime, deps.Notifier, deps.Events, log.Named("enqueue"))
	assignNext := usecases.NewAssignNextUseCase(deps.Queue, deps.Store, deps.AssignRetries, deps.Notifier, deps.Events, log.Named("assign_next"))

	return &TransferCoordinator{
		RequestTransfer: usecases.NewRequestTransferUseCase(
			deps.Transfers, deps.Store, deps.Directory, deps.Mailer, deps.Sanitizer,
			deps.Notifier, deps.Events, log.Named("request_transfer")),
		RespondTransfer: usecases.NewRespondTransferUseCase(
			deps.Transfers, deps.Store, deps.TxManager, deps.Sanitizer,
			deps.Notifier, deps.Events, log.Named("respond_transfer")),
		CancelTransfer: usecases.NewCancelTransferUseCase(deps.Transfers, deps.Notifier, deps.Events, log.Named("cancel_transfer")),
		GetTransfer:    usecases.NewGetTransferUseCase(deps.Transfers, log.Named("get_transfer")),
		History:        usecases.NewTransferHistoryUseCase(deps.Transfers, log.Named("transfer_history")),

		Enqueue:       enqueue,
		QueuePosition: usecases.NewQueuePositionUseCase(deps.Queue, serviceTime, log.Named("queue_position")),
		AssignNext:    assignNext,
		RemoveEntry:   usecases.NewRemoveEntryUseCase(deps.Queue, deps.Notifier, deps.Events, log.Named("remove_entry")),
		QueueStats:    usecases.NewQueueStatsUseCase(deps.Queue, log.Named("queue_stats")),

		AutoAssign: usecases.NewAutoAssignUseCase(deps.Directory, deps.Store, enqueue, deps.Notifier, deps.Events, log.Named("auto_assign")),
		BulkAssign: usecases.NewBulkAssignUseCase(assignNext, log.Named("bulk_assign")),
	}
}
