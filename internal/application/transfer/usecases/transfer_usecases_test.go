package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/services/sanitize"
)

func newRequestTransfer(repo transfer.Repository, store *mockStore, dir operator.Directory, mailer Mailer, n *recordingNotifier) *RequestTransferUseCase {
	return NewRequestTransferUseCase(repo, store, dir, mailer, sanitize.New(1000), n, &recordingEvents{}, testLogger())
}

func validRequest() RequestTransferCommand {
	return RequestTransferCommand{
		FromOperatorID: "op-a",
		ToOperatorID:   "op-b",
		ConversationID: "C107",
		VisitorID:      "V9",
		Reason:         "needs billing expertise.",
	}
}

func TestRequestTransfer_Success(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), nil, nil, notifier)

	result, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "needs billing expertise.", result.Reason)
	assert.Contains(t, result.ID, "tr_")

	offered, ok := notifier.find(protocol.OperatorChannel("op-b"), protocol.EventTransferOffered)
	require.True(t, ok)
	assert.Equal(t, result, offered.Payload)
}

func TestRequestTransfer_SanitizesText(t *testing.T) {
	var stored *transfer.TransferRequest
	repo := &mockTransferRepository{CreateFunc: func(_ context.Context, tr *transfer.TransferRequest) error {
		stored = tr
		return nil
	}}
	uc := newRequestTransfer(repo, newMockStore(), nil, nil, &recordingNotifier{})

	cmd := validRequest()
	cmd.Reason = "<script>x()</script>billing"
	cmd.Note = "<i>vip</i>"
	_, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "billing", stored.Reason())
	assert.Equal(t, "vip", stored.Note())
}

func TestRequestTransfer_SelfTransfer(t *testing.T) {
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), nil, nil, &recordingNotifier{})

	cmd := validRequest()
	cmd.ToOperatorID = cmd.FromOperatorID
	_, err := uc.Execute(context.Background(), cmd)
	assert.True(t, errors.IsInvalidOperationError(err))
}

func TestRequestTransfer_Validation(t *testing.T) {
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), nil, nil, &recordingNotifier{})

	cmd := validRequest()
	cmd.VisitorID = " "
	_, err := uc.Execute(context.Background(), cmd)
	assert.True(t, errors.IsValidationError(err))
}

func TestRequestTransfer_TargetAlreadyOwnsConversation(t *testing.T) {
	store := newMockStore()
	store.owners["C107"] = "op-b"
	uc := newRequestTransfer(&mockTransferRepository{}, store, nil, nil, &recordingNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.True(t, errors.IsInvalidOperationError(err))
}

func TestRequestTransfer_ActiveTransferConflict(t *testing.T) {
	repo := &mockTransferRepository{
		GetActiveByConversationFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
			return pendingTransfer("tr_existing"), nil
		},
	}
	uc := newRequestTransfer(repo, newMockStore(), nil, nil, &recordingNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.True(t, errors.IsConflictError(err))
	assert.Equal(t, "tr_existing", errors.GetAppError(err).Details)
}

func TestRequestTransfer_StoreRaceConflict(t *testing.T) {
	repo := &mockTransferRepository{
		CreateFunc: func(context.Context, *transfer.TransferRequest) error {
			return transfer.ErrActiveTransfer
		},
	}
	notifier := &recordingNotifier{}
	uc := newRequestTransfer(repo, newMockStore(), nil, nil, notifier)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.True(t, errors.IsConflictError(err))
	assert.Empty(t, notifier.events)
}

func TestRequestTransfer_NotifierFailureIsDropped(t *testing.T) {
	notifier := &recordingNotifier{err: stderrors.New("hub down")}
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), nil, nil, notifier)

	result, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
}

func TestRequestTransfer_MailsOfflineOperator(t *testing.T) {
	dir := &mockDirectory{operators: []*operator.Availability{
		{ID: "op-b", Online: false, Email: "b@example.com"},
	}}
	mailer := &recordingMailer{}
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), dir, mailer, &recordingNotifier{})

	result, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"b@example.com"}, mailer.sent[0].recipients)
	assert.Contains(t, mailer.sent[0].body, result.ID)
}

func TestRequestTransfer_NoMailForOnlineOperator(t *testing.T) {
	dir := &mockDirectory{operators: []*operator.Availability{
		{ID: "op-b", Online: true, Email: "b@example.com"},
	}}
	mailer := &recordingMailer{}
	uc := newRequestTransfer(&mockTransferRepository{}, newMockStore(), dir, mailer, &recordingNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Never(t, func() bool { return mailer.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func newRespondTransfer(repo transfer.Repository, store *mockStore, n *recordingNotifier) *RespondTransferUseCase {
	return NewRespondTransferUseCase(repo, store, passthroughTx{}, sanitize.New(1000), n, &recordingEvents{}, testLogger())
}

func TestRespondTransfer_Accept(t *testing.T) {
	request := pendingTransfer("tr_1")
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return request, nil
	}}
	store := newMockStore()
	notifier := &recordingNotifier{}

	result, err := newRespondTransfer(repo, store, notifier).Execute(context.Background(), RespondTransferCommand{
		TransferID:  "tr_1",
		Accepted:    true,
		RespondedBy: "op-b",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	require.NotNil(t, result.RespondedAt)
	require.NotNil(t, result.CompletedAt)
	assert.Equal(t, *result.RespondedAt, *result.CompletedAt)
	assert.Equal(t, "op-b", store.owners["conv-1"])

	responded, ok := notifier.find(protocol.OperatorChannel("op-a"), protocol.EventTransferResponded)
	require.True(t, ok)
	assert.True(t, responded.Payload.(*dto.TransferRespondedPayload).Accepted)
	_, ok = notifier.find(protocol.OperatorChannel("op-b"), protocol.EventTransferCompleted)
	assert.True(t, ok)
}

func TestRespondTransfer_Reject(t *testing.T) {
	request := pendingTransfer("tr_1")
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return request, nil
	}}
	store := newMockStore()
	notifier := &recordingNotifier{}

	result, err := newRespondTransfer(repo, store, notifier).Execute(context.Background(), RespondTransferCommand{
		TransferID:  "tr_1",
		Reason:      "busy",
		RespondedBy: "op-b",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", result.Status)
	assert.Equal(t, "busy", result.ResponseReason)
	assert.NotNil(t, result.RespondedAt)
	assert.Nil(t, result.CompletedAt)
	assert.Zero(t, store.setCalls)

	_, ok := notifier.find(protocol.OperatorChannel("op-b"), protocol.EventTransferCompleted)
	assert.False(t, ok)
}

func TestRespondTransfer_Errors(t *testing.T) {
	t.Run("unknown transfer", func(t *testing.T) {
		_, err := newRespondTransfer(&mockTransferRepository{}, newMockStore(), &recordingNotifier{}).
			Execute(context.Background(), RespondTransferCommand{TransferID: "tr_missing", Accepted: true, RespondedBy: "op-b"})
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("already resolved", func(t *testing.T) {
		request := pendingTransfer("tr_1")
		require.NoError(t, request.Reject("", time.Now()))
		repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
			return request, nil
		}}
		_, err := newRespondTransfer(repo, newMockStore(), &recordingNotifier{}).
			Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true, RespondedBy: "op-b"})
		assert.True(t, errors.IsInvalidStateError(err))
	})

	t.Run("lost concurrent response", func(t *testing.T) {
		repo := &mockTransferRepository{
			GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
				return pendingTransfer("tr_1"), nil
			},
			UpdateFunc: func(context.Context, *transfer.TransferRequest) error {
				return transfer.ErrConcurrentUpdate
			},
		}
		_, err := newRespondTransfer(repo, newMockStore(), &recordingNotifier{}).
			Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", RespondedBy: "op-b"})
		assert.True(t, errors.IsInvalidStateError(err))
	})

	t.Run("conversation store failure", func(t *testing.T) {
		repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
			return pendingTransfer("tr_1"), nil
		}}
		store := newMockStore()
		store.setErr = stderrors.New("redis down")
		notifier := &recordingNotifier{}

		_, err := newRespondTransfer(repo, store, notifier).
			Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true, RespondedBy: "op-b"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeInternal, errors.GetAppError(err).Type)
		assert.Empty(t, notifier.events)
	})
}

func TestCancelTransfer_TwiceFailsWithInvalidState(t *testing.T) {
	request := pendingTransfer("tr_1")
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return request, nil
	}}
	notifier := &recordingNotifier{}
	uc := NewCancelTransferUseCase(repo, notifier, nil, testLogger())

	result, err := uc.Execute(context.Background(), CancelTransferCommand{TransferID: "tr_1", CancelledBy: "op-a"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
	_, ok := notifier.find(protocol.OperatorChannel("op-b"), protocol.EventTransferCancelled)
	assert.True(t, ok)

	_, err = uc.Execute(context.Background(), CancelTransferCommand{TransferID: "tr_1", CancelledBy: "op-a"})
	assert.True(t, errors.IsInvalidStateError(err))
}

func TestRespondTransfer_OnlyRecipient(t *testing.T) {
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return pendingTransfer("tr_1"), nil
	}}
	store := newMockStore()

	_, err := newRespondTransfer(repo, store, &recordingNotifier{}).
		Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true, RespondedBy: "op-c"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeForbidden, errors.GetAppError(err).Type)
	assert.Zero(t, store.setCalls)

	_, err = newRespondTransfer(repo, store, &recordingNotifier{}).
		Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true})
	assert.True(t, errors.IsValidationError(err))

	result, err := newRespondTransfer(repo, store, &recordingNotifier{}).
		Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true, RespondedBy: "sup-1", AnyParty: true})
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "op-b", store.owners["conv-1"])
}

// commitFailingTx runs the work and then reports a failed commit.
type commitFailingTx struct{}

func (commitFailingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return stderrors.New("commit failed")
}

func TestRespondTransfer_CommitFailureRestoresOperator(t *testing.T) {
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return pendingTransfer("tr_1"), nil
	}}
	store := newMockStore()
	store.owners["conv-1"] = "op-a"
	notifier := &recordingNotifier{}
	uc := NewRespondTransferUseCase(repo, store, commitFailingTx{}, sanitize.New(1000), notifier, &recordingEvents{}, testLogger())

	_, err := uc.Execute(context.Background(), RespondTransferCommand{TransferID: "tr_1", Accepted: true, RespondedBy: "op-b"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInternal, errors.GetAppError(err).Type)
	assert.Equal(t, "op-a", store.owners["conv-1"])
	assert.Equal(t, 2, store.setCalls)
	assert.Empty(t, notifier.events)
}

func TestCancelTransfer_OnlyRequester(t *testing.T) {
	repo := &mockTransferRepository{GetBySIDFunc: func(context.Context, string) (*transfer.TransferRequest, error) {
		return pendingTransfer("tr_1"), nil
	}}
	uc := NewCancelTransferUseCase(repo, nil, nil, testLogger())

	_, err := uc.Execute(context.Background(), CancelTransferCommand{TransferID: "tr_1", CancelledBy: "op-b"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeForbidden, errors.GetAppError(err).Type)

	result, err := uc.Execute(context.Background(), CancelTransferCommand{TransferID: "tr_1", CancelledBy: "sup-1", AnyParty: true})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
}

func TestCancelTransfer_NotFound(t *testing.T) {
	uc := NewCancelTransferUseCase(&mockTransferRepository{}, nil, nil, testLogger())
	_, err := uc.Execute(context.Background(), CancelTransferCommand{TransferID: "tr_x", CancelledBy: "op-a"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestTransferHistory_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockTransferRepository{ListByOperatorFunc: func(_ context.Context, _ string, limit int) ([]*transfer.TransferRequest, error) {
		gotLimit = limit
		return []*transfer.TransferRequest{pendingTransfer("tr_1")}, nil
	}}
	uc := NewTransferHistoryUseCase(repo, testLogger())

	list, err := uc.Execute(context.Background(), TransferHistoryQuery{OperatorID: "op-a", Limit: 500})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 100, gotLimit)

	_, err = uc.Execute(context.Background(), TransferHistoryQuery{OperatorID: ""})
	assert.True(t, errors.IsValidationError(err))
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, 20, ClampHistoryLimit(0))
	assert.Equal(t, 1, ClampHistoryLimit(-5))
	assert.Equal(t, 7, ClampHistoryLimit(7))
	assert.Equal(t, 100, ClampHistoryLimit(101))
}

func TestGetTransfer(t *testing.T) {
	repo := &mockTransferRepository{GetBySIDFunc: func(_ context.Context, sid string) (*transfer.TransferRequest, error) {
		if sid == "tr_1" {
			return pendingTransfer("tr_1"), nil
		}
		return nil, transfer.ErrTransferNotFound
	}}
	uc := NewGetTransferUseCase(repo, testLogger())

	got, err := uc.Execute(context.Background(), GetTransferQuery{TransferID: "tr_1"})
	require.NoError(t, err)
	assert.Equal(t, "tr_1", got.ID)

	_, err = uc.Execute(context.Background(), GetTransferQuery{TransferID: "tr_2"})
	assert.True(t, errors.IsNotFoundError(err))
}
