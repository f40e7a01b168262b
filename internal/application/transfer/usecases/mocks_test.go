package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type mockTransferRepository struct {
	CreateFunc                  func(ctx context.Context, t *transfer.TransferRequest) error
	GetBySIDFunc                func(ctx context.Context, sid string) (*transfer.TransferRequest, error)
	GetActiveByConversationFunc func(ctx context.Context, conversationID string) (*transfer.TransferRequest, error)
	UpdateFunc                  func(ctx context.Context, t *transfer.TransferRequest) error
	ListByOperatorFunc          func(ctx context.Context, operatorID string, limit int) ([]*transfer.TransferRequest, error)
}

func (m *mockTransferRepository) Create(ctx context.Context, t *transfer.TransferRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	t.SetID(1)
	return nil
}

func (m *mockTransferRepository) GetBySID(ctx context.Context, sid string) (*transfer.TransferRequest, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, transfer.ErrTransferNotFound
}

func (m *mockTransferRepository) GetActiveByConversation(ctx context.Context, conversationID string) (*transfer.TransferRequest, error) {
	if m.GetActiveByConversationFunc != nil {
		return m.GetActiveByConversationFunc(ctx, conversationID)
	}
	return nil, nil
}

func (m *mockTransferRepository) Update(ctx context.Context, t *transfer.TransferRequest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	t.IncrementVersion()
	return nil
}

func (m *mockTransferRepository) ListByOperator(ctx context.Context, operatorID string, limit int) ([]*transfer.TransferRequest, error) {
	if m.ListByOperatorFunc != nil {
		return m.ListByOperatorFunc(ctx, operatorID, limit)
	}
	return nil, nil
}

type mockQueueRepository struct {
	CreateFunc             func(ctx context.Context, e *queue.Entry) error
	GetBySIDFunc           func(ctx context.Context, sid string) (*queue.Entry, error)
	GetActiveByVisitorFunc func(ctx context.Context, visitorID string) (*queue.Entry, error)
	UpdateFunc             func(ctx context.Context, e *queue.Entry) error
	HeadFunc               func(ctx context.Context) (*queue.Entry, error)
	CountAheadFunc         func(ctx context.Context, e *queue.Entry) (int64, error)
	CountQueuedFunc        func(ctx context.Context) (int64, error)
	AverageWaitFunc        func(ctx context.Context) (time.Duration, error)
}

func (m *mockQueueRepository) Create(ctx context.Context, e *queue.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	e.SetID(1)
	return nil
}

func (m *mockQueueRepository) GetBySID(ctx context.Context, sid string) (*queue.Entry, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, queue.ErrEntryNotFound
}

func (m *mockQueueRepository) GetActiveByVisitor(ctx context.Context, visitorID string) (*queue.Entry, error) {
	if m.GetActiveByVisitorFunc != nil {
		return m.GetActiveByVisitorFunc(ctx, visitorID)
	}
	return nil, nil
}

func (m *mockQueueRepository) Update(ctx context.Context, e *queue.Entry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, e)
	}
	e.IncrementVersion()
	return nil
}

func (m *mockQueueRepository) Head(ctx context.Context) (*queue.Entry, error) {
	if m.HeadFunc != nil {
		return m.HeadFunc(ctx)
	}
	return nil, nil
}

func (m *mockQueueRepository) CountAhead(ctx context.Context, e *queue.Entry) (int64, error) {
	if m.CountAheadFunc != nil {
		return m.CountAheadFunc(ctx, e)
	}
	return 0, nil
}

func (m *mockQueueRepository) CountQueued(ctx context.Context) (int64, error) {
	if m.CountQueuedFunc != nil {
		return m.CountQueuedFunc(ctx)
	}
	return 0, nil
}

func (m *mockQueueRepository) AverageWait(ctx context.Context) (time.Duration, error) {
	if m.AverageWaitFunc != nil {
		return m.AverageWaitFunc(ctx)
	}
	return 0, nil
}

type mockDirectory struct {
	operators []*operator.Availability
	listErr   error
}

func (m *mockDirectory) Get(_ context.Context, operatorID string) (*operator.Availability, error) {
	for _, op := range m.operators {
		if op.ID == operatorID {
			return op, nil
		}
	}
	return nil, operator.ErrOperatorNotFound
}

func (m *mockDirectory) List(context.Context) ([]*operator.Availability, error) {
	return m.operators, m.listErr
}

func (m *mockDirectory) SetOnline(_ context.Context, operatorID string, online bool) error {
	for _, op := range m.operators {
		if op.ID == operatorID {
			op.Online = online
		}
	}
	return nil
}

type mockStore struct {
	mu       sync.Mutex
	owners   map[string]string
	setErr   error
	setCalls int
}

func newMockStore() *mockStore {
	return &mockStore{owners: map[string]string{}}
}

func (m *mockStore) OperatorOf(_ context.Context, conversationID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.owners[conversationID]
	if !ok {
		return "", conversation.ErrConversationNotFound
	}
	return op, nil
}

func (m *mockStore) SetOperatorOfRecord(_ context.Context, conversationID, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.owners[conversationID] = operatorID
	return nil
}

type published struct {
	Channel string
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, channel, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{Channel: channel, Event: event, Payload: payload})
	return n.err
}

func (n *recordingNotifier) find(channel, event string) (published, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range n.events {
		if p.Channel == channel && p.Event == event {
			return p, true
		}
	}
	return published{}, false
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEvents) Publish(_ context.Context, eventType, _ string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	return nil
}

func (r *recordingEvents) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

type sentMail struct {
	recipients []string
	subject    string
	body       string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, recipients []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{recipients: recipients, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// passthroughTx runs fn directly; rollback is not modelled.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() logger.Interface {
	return logger.NewNop()
}

func pendingTransfer(sid string) *transfer.TransferRequest {
	now := time.Now().UTC()
	t, err := transfer.ReconstructTransferRequest(1, sid, "op-a", "op-b", "conv-1", "visitor-1",
		transfer.StatusPending, "", "", "", now, nil, nil, 1)
	if err != nil {
		panic(err)
	}
	return t
}

func queuedEntry(sid string, id uint, priority int) *queue.Entry {
	e, err := queue.NewEntry(sid, "visitor-"+sid, "conv-"+sid, priority, nil, time.Now().UTC())
	if err != nil {
		panic(err)
	}
	e.SetID(id)
	return e
}
