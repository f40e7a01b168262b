package usecases

import (
	"context"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type AutoAssignCommand struct {
	VisitorID      string
	ConversationID string
	Priority       int
	Tags           []string
	Exclude        []string
}

type AutoAssignExecutor interface {
	Execute(ctx context.Context, cmd AutoAssignCommand) (*dto.AutoAssignResultDTO, error)
}

type AutoAssignUseCase struct {
	directory operator.Directory
	store     conversation.Store
	enqueue   EnqueueExecutor
	effects   sideEffects
	logger    logger.Interface
}

func NewAutoAssignUseCase(
	directory operator.Directory,
	store conversation.Store,
	enqueue EnqueueExecutor,
	notifier Notifier,
	events EventPublisher,
	logger logger.Interface,
) *AutoAssignUseCase {
	return &AutoAssignUseCase{
		directory: directory,
		store:     store,
		enqueue:   enqueue,
		effects:   newSideEffects(notifier, events, logger),
		logger:    logger,
	}
}

// Execute hands the conversation to the least-loaded eligible operator, or
// queues the visitor when nobody qualifies.
func (uc *AutoAssignUseCase) Execute(ctx context.Context, cmd AutoAssignCommand) (*dto.AutoAssignResultDTO, error) {
	uc.logger.Infow("executing auto assign use case",
		"visitor_id", cmd.VisitorID,
		"conversation_id", cmd.ConversationID,
		"tags", cmd.Tags)

	if strings.TrimSpace(cmd.VisitorID) == "" {
		return nil, errors.NewValidationError("visitor id is required")
	}
	if strings.TrimSpace(cmd.ConversationID) == "" {
		return nil, errors.NewValidationError("conversation id is required")
	}

	operators, err := uc.directory.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list operators", "error", err)
		return nil, errors.NewInternalError("failed to read operator directory")
	}

	tags := queue.NormalizeTags(cmd.Tags)
	chosen := operator.SelectLeastLoaded(operators, tags, cmd.Exclude)
	if chosen == nil {
		uc.logger.Infow("no operator available, queueing visitor",
			"visitor_id", cmd.VisitorID,
			"candidates_seen", len(operators))

		queued, err := uc.enqueue.Execute(ctx, EnqueueCommand{
			VisitorID:      cmd.VisitorID,
			ConversationID: cmd.ConversationID,
			Priority:       cmd.Priority,
			Tags:           tags,
		})
		if err != nil {
			return nil, err
		}
		return &dto.AutoAssignResultDTO{QueueEntry: queued.Entry, Position: queued.Position}, nil
	}

	assignment := &operator.Assignment{
		OperatorID:     chosen.ID,
		ConversationID: cmd.ConversationID,
		VisitorID:      cmd.VisitorID,
		Type:           operator.AssignmentDirect,
	}

	if uc.store != nil {
		if err := uc.store.SetOperatorOfRecord(ctx, cmd.ConversationID, chosen.ID); err != nil {
			uc.logger.Warnw("failed to set operator of record",
				"conversation_id", cmd.ConversationID,
				"operator_id", chosen.ID,
				"error", err)
		}
	}

	result := dto.ToAssignmentDTO(assignment)
	uc.effects.notifyOperator(ctx, chosen.ID, protocol.EventAssignment, result)
	uc.effects.audit(ctx, EventDirectAssignment, cmd.ConversationID, result)

	uc.logger.Infow("conversation assigned directly",
		"operator_id", chosen.ID,
		"active_conversations", chosen.ActiveConversations,
		"conversation_id", cmd.ConversationID)

	return &dto.AutoAssignResultDTO{Assignment: result}, nil
}
