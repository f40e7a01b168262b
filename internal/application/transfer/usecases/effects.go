package usecases

import (
	"context"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// sideEffects sends notifications and audit events after a state change has
// been persisted. Failures are logged and never returned.
type sideEffects struct {
	notifier Notifier
	events   EventPublisher
	logger   logger.Interface
}

func newSideEffects(notifier Notifier, events EventPublisher, log logger.Interface) sideEffects {
	return sideEffects{notifier: notifier, events: events, logger: log}
}

func (s sideEffects) notify(ctx context.Context, channel, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, channel, event, payload); err != nil {
		s.logger.Warnw("failed to notify operators",
			"channel", channel,
			"event", event,
			"error", err)
	}
}

func (s sideEffects) notifyOperator(ctx context.Context, operatorID, event string, payload any) {
	s.notify(ctx, protocol.OperatorChannel(operatorID), event, payload)
}

func (s sideEffects) broadcast(ctx context.Context, event string, payload any) {
	s.notify(ctx, protocol.BroadcastChannel, event, payload)
}

func (s sideEffects) audit(ctx context.Context, eventType, key string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, key, data); err != nil {
		s.logger.Warnw("failed to publish audit event",
			"type", eventType,
			"key", key,
			"error", err)
	}
}

// broadcastQueueStatus pushes the current queue length to every session.
func (s sideEffects) broadcastQueueStatus(ctx context.Context, repo queue.Repository) {
	total, err := repo.CountQueued(ctx)
	if err != nil {
		s.logger.Warnw("failed to count queue for status broadcast", "error", err)
		return
	}
	s.broadcast(ctx, protocol.EventQueueStatus, &dto.QueueStatusPayload{TotalQueued: total})
}
