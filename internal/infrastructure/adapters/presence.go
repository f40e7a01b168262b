package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/shared/goroutine"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const (
	presenceTimeout = 5 * time.Second
	presenceBuffer  = 256
)

// PresenceTracker records which instances hold sessions for an operator.
type PresenceTracker interface {
	MarkConnected(ctx context.Context, operatorID, instanceID string) error
	MarkDisconnected(ctx context.Context, operatorID, instanceID string) (int, error)
}

type presenceUpdate struct {
	operatorID string
	online     bool
}

// PresenceAdapter mirrors local session presence into the operator directory.
// Its Online and Offline methods match the hub presence callbacks. Updates are
// applied by a single worker in the order the hub reported them.
type PresenceAdapter struct {
	tracker    PresenceTracker
	instanceID string
	logger     logger.Interface

	mu      sync.Mutex
	closed  bool
	updates chan presenceUpdate
	done    chan struct{}
}

func NewPresenceAdapter(tracker PresenceTracker, instanceID string, log logger.Interface) *PresenceAdapter {
	a := &PresenceAdapter{
		tracker:    tracker,
		instanceID: instanceID,
		logger:     log,
		updates:    make(chan presenceUpdate, presenceBuffer),
		done:       make(chan struct{}),
	}
	goroutine.SafeGo(log, "operator-presence", a.run)
	return a
}

func (a *PresenceAdapter) Online(operatorID string) {
	a.enqueue(presenceUpdate{operatorID: operatorID, online: true})
}

func (a *PresenceAdapter) Offline(operatorID string) {
	a.enqueue(presenceUpdate{operatorID: operatorID, online: false})
}

func (a *PresenceAdapter) enqueue(u presenceUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		a.logger.Warnw("presence update after close dropped",
			"operator_id", u.operatorID,
			"online", u.online)
		return
	}
	a.updates <- u
}

// Close stops accepting updates and waits until the queued ones are written
// or ctx ends.
func (a *PresenceAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.updates)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *PresenceAdapter) run() {
	defer close(a.done)
	for u := range a.updates {
		a.apply(u)
	}
}

func (a *PresenceAdapter) apply(u presenceUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	if u.online {
		if err := a.tracker.MarkConnected(ctx, u.operatorID, a.instanceID); err != nil {
			a.logger.Warnw("failed to mark operator connected",
				"operator_id", u.operatorID,
				"error", err)
		}
		return
	}

	left, err := a.tracker.MarkDisconnected(ctx, u.operatorID, a.instanceID)
	if err != nil {
		a.logger.Warnw("failed to mark operator disconnected",
			"operator_id", u.operatorID,
			"error", err)
		return
	}
	a.logger.Debugw("operator disconnected from instance",
		"operator_id", u.operatorID,
		"instances_left", left)
}
