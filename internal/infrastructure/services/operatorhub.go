// Package services provides infrastructure services.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// HubError is a hub failure with a stable code.
type HubError struct {
	Code    string
	Message string
}

func (e *HubError) Error() string {
	return e.Message
}

var (
	ErrSessionNotFound = &HubError{Code: "session_not_found", Message: "session not found"}
	ErrTooManySessions = &HubError{Code: "too_many_sessions", Message: "operator session limit reached"}
	ErrHubClosed       = &HubError{Code: "hub_closed", Message: "hub is shut down"}
	ErrUnknownChannel  = &HubError{Code: "unknown_channel", Message: "unknown notification channel"}
)

// OperatorSession is one live console connection. It is unbound until the
// client joins an operator channel.
type OperatorSession struct {
	ID          string
	RemoteAddr  string
	Send        chan []byte
	ConnectedAt time.Time

	operatorID string // guarded by OperatorHub.mu
	closed     atomic.Bool
}

// TrySend queues data without blocking. It returns false if the session is
// closed or its buffer is full.
func (s *OperatorSession) TrySend(data []byte) (sent bool) {
	if s.closed.Load() {
		return false
	}

	// Close may race us between the check and the send.
	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case s.Send <- data:
		return true
	default:
		return false
	}
}

// Close closes the send channel once; the writer loop sees it and hangs up.
func (s *OperatorSession) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.Send)
	}
}

// OperatorHubConfig holds configuration for OperatorHub.
type OperatorHubConfig struct {
	SendBuffer             int // default 256
	MaxSessionsPerOperator int // default 5
}

// OperatorHub is the process-local registry of operator sessions and the
// delivery end of notifications.
type OperatorHub struct {
	mu         sync.RWMutex
	sessions   map[string]*OperatorSession
	byOperator map[string]map[string]*OperatorSession

	sendBuffer  int
	maxSessions int

	onOperatorOnline  func(operatorID string)
	onOperatorOffline func(operatorID string)

	shutdown atomic.Bool
	logger   logger.Interface
}

func NewOperatorHub(log logger.Interface, cfg *OperatorHubConfig) *OperatorHub {
	h := &OperatorHub{
		sessions:    make(map[string]*OperatorSession),
		byOperator:  make(map[string]map[string]*OperatorSession),
		sendBuffer:  256,
		maxSessions: 5,
		logger:      log,
	}
	if cfg != nil {
		if cfg.SendBuffer > 0 {
			h.sendBuffer = cfg.SendBuffer
		}
		if cfg.MaxSessionsPerOperator > 0 {
			h.maxSessions = cfg.MaxSessionsPerOperator
		}
	}
	return h
}

// SetPresenceCallbacks registers hooks fired when an operator gets their first
// local session and loses their last one. Callbacks run outside the hub lock.
func (h *OperatorHub) SetPresenceCallbacks(online, offline func(operatorID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onOperatorOnline = online
	h.onOperatorOffline = offline
}

// Open registers a new unbound session.
func (h *OperatorHub) Open(remoteAddr string) (*OperatorSession, error) {
	if h.shutdown.Load() {
		return nil, ErrHubClosed
	}

	s := &OperatorSession{
		ID:          uuid.NewString(),
		RemoteAddr:  remoteAddr,
		Send:        make(chan []byte, h.sendBuffer),
		ConnectedAt: biztime.NowUTC(),
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.logger.Debugw("operator session opened", "session_id", s.ID, "remote_addr", remoteAddr)
	return s, nil
}

// Join binds a session to an operator's channel, leaving any previous binding.
func (h *OperatorHub) Join(sessionID, operatorID string) error {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return ErrSessionNotFound
	}
	if s.operatorID == operatorID {
		h.mu.Unlock()
		return nil
	}
	if len(h.byOperator[operatorID]) >= h.maxSessions {
		h.mu.Unlock()
		h.logger.Warnw("operator session limit exceeded", "operator_id", operatorID, "limit", h.maxSessions)
		return ErrTooManySessions
	}

	previous, wentOffline := h.unbindLocked(s)

	set := h.byOperator[operatorID]
	cameOnline := len(set) == 0
	if set == nil {
		set = make(map[string]*OperatorSession)
		h.byOperator[operatorID] = set
	}
	set[sessionID] = s
	s.operatorID = operatorID
	online, offline := h.onOperatorOnline, h.onOperatorOffline
	h.mu.Unlock()

	h.logger.Infow("operator session joined", "session_id", sessionID, "operator_id", operatorID)

	if wentOffline && offline != nil {
		offline(previous)
	}
	if cameOnline && online != nil {
		online(operatorID)
	}
	return nil
}

// Leave unbinds a session; the connection stays open.
func (h *OperatorHub) Leave(sessionID string) error {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return ErrSessionNotFound
	}
	previous, wentOffline := h.unbindLocked(s)
	offline := h.onOperatorOffline
	h.mu.Unlock()

	if wentOffline && offline != nil {
		offline(previous)
	}
	return nil
}

// Close unregisters and closes a session.
func (h *OperatorHub) Close(sessionID string) {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, sessionID)
	previous, wentOffline := h.unbindLocked(s)
	offline := h.onOperatorOffline
	h.mu.Unlock()

	s.Close()
	h.logger.Debugw("operator session closed", "session_id", sessionID, "operator_id", previous)

	if wentOffline && offline != nil {
		offline(previous)
	}
}

// unbindLocked detaches s from its operator and reports whether that operator
// has no sessions left.
func (h *OperatorHub) unbindLocked(s *OperatorSession) (string, bool) {
	previous := s.operatorID
	if previous == "" {
		return "", false
	}
	s.operatorID = ""
	set := h.byOperator[previous]
	delete(set, s.ID)
	if len(set) == 0 {
		delete(h.byOperator, previous)
		return previous, true
	}
	return previous, false
}

// OperatorOf returns the operator a session is bound to, or "".
func (h *OperatorHub) OperatorOf(sessionID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.sessions[sessionID]; ok {
		return s.operatorID
	}
	return ""
}

// IsConnected reports whether the operator has a session on this instance.
func (h *OperatorHub) IsConnected(operatorID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byOperator[operatorID]) > 0
}

func (h *OperatorHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Publish encodes an event and delivers it to local sessions on channel.
// Nobody listening is not an error.
func (h *OperatorHub) Publish(_ context.Context, channel, event string, payload any) error {
	data, err := protocol.Encode(channel, event, payload, biztime.NowUTC())
	if err != nil {
		return err
	}
	return h.Deliver(channel, data)
}

// Deliver fans an encoded message out to local sessions on channel.
func (h *OperatorHub) Deliver(channel string, data []byte) error {
	if h.shutdown.Load() {
		return ErrHubClosed
	}
	operatorID, broadcast, ok := protocol.ParseChannel(channel)
	if !ok {
		return ErrUnknownChannel
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if broadcast {
		for _, set := range h.byOperator {
			for _, s := range set {
				h.trySend(s, channel, data)
			}
		}
		return nil
	}
	for _, s := range h.byOperator[operatorID] {
		h.trySend(s, channel, data)
	}
	return nil
}

func (h *OperatorHub) trySend(s *OperatorSession, channel string, data []byte) {
	if !s.TrySend(data) {
		h.logger.Warnw("dropping notification, session buffer full",
			"session_id", s.ID,
			"operator_id", s.operatorID,
			"channel", channel,
		)
	}
}

// SendTo writes a direct reply to one session, bypassing channels.
func (h *OperatorHub) SendTo(sessionID string, msg *protocol.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.TrySend(data)
	return nil
}

// Shutdown tells bound sessions the instance is going away, then closes every
// session. Safe to call more than once.
func (h *OperatorHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	notice, err := protocol.Encode(protocol.BroadcastChannel, protocol.EventSystemStatus,
		map[string]string{"status": "shutting_down"}, biztime.NowUTC())
	if err != nil {
		h.logger.Warnw("failed to encode shutdown notice", "error", err)
	}

	h.mu.Lock()
	for _, s := range h.sessions {
		// queued before close, so the writer flushes it ahead of the close frame
		if notice != nil && s.operatorID != "" {
			s.TrySend(notice)
		}
		s.operatorID = ""
		s.Close()
	}
	bound := make([]string, 0, len(h.byOperator))
	for operatorID := range h.byOperator {
		bound = append(bound, operatorID)
	}
	h.sessions = make(map[string]*OperatorSession)
	h.byOperator = make(map[string]map[string]*OperatorSession)
	offline := h.onOperatorOffline
	h.mu.Unlock()

	if offline != nil {
		for _, operatorID := range bound {
			offline(operatorID)
		}
	}

	h.logger.Infow("operator hub shut down", "operators_released", len(bound))
}
