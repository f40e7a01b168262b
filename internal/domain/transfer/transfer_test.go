package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newPending(t *testing.T) *TransferRequest {
	t.Helper()
	tr, err := NewTransferRequest("tr_abc", "opA", "opB", "C107", "V9", "needs billing expertise", "", t0)
	require.NoError(t, err)
	return tr
}

func TestNewTransferRequest(t *testing.T) {
	t.Run("pending on creation", func(t *testing.T) {
		tr := newPending(t)
		assert.Equal(t, StatusPending, tr.Status())
		assert.Equal(t, t0, tr.RequestedAt())
		assert.Nil(t, tr.RespondedAt())
		assert.Nil(t, tr.CompletedAt())
		assert.Equal(t, 1, tr.Version())
		assert.True(t, tr.Involves("opA"))
		assert.True(t, tr.Involves("opB"))
		assert.False(t, tr.Involves("opC"))
	})

	t.Run("self transfer", func(t *testing.T) {
		_, err := NewTransferRequest("tr_abc", "opA", "opA", "C1", "V1", "", "", t0)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("missing participants", func(t *testing.T) {
		_, err := NewTransferRequest("tr_abc", "opA", "opB", "", "V1", "", "", t0)
		assert.ErrorIs(t, err, ErrMissingParticipant)
	})
}

func TestTransferRequest_Accept(t *testing.T) {
	tr := newPending(t)
	at := t0.Add(time.Minute)

	require.NoError(t, tr.Accept("ok", at))

	assert.Equal(t, StatusCompleted, tr.Status())
	require.NotNil(t, tr.RespondedAt())
	require.NotNil(t, tr.CompletedAt())
	assert.Equal(t, at, *tr.RespondedAt())
	assert.Equal(t, at, *tr.CompletedAt())
	assert.Equal(t, "ok", tr.ResponseReason())
}

func TestTransferRequest_Reject(t *testing.T) {
	tr := newPending(t)

	require.NoError(t, tr.Reject("busy", t0))

	assert.Equal(t, StatusRejected, tr.Status())
	assert.NotNil(t, tr.RespondedAt())
	assert.Nil(t, tr.CompletedAt())
}

func TestTransferRequest_ResolvedIsTerminal(t *testing.T) {
	resolve := map[string]func(*TransferRequest) error{
		"accept": func(tr *TransferRequest) error { return tr.Accept("", t0) },
		"reject": func(tr *TransferRequest) error { return tr.Reject("", t0) },
		"cancel": func(tr *TransferRequest) error { return tr.Cancel() },
	}

	for first, firstFn := range resolve {
		for second, secondFn := range resolve {
			t.Run(first+" then "+second, func(t *testing.T) {
				tr := newPending(t)
				require.NoError(t, firstFn(tr))
				before := tr.Status()

				assert.ErrorIs(t, secondFn(tr), ErrNotPending)
				assert.Equal(t, before, tr.Status())
			})
		}
	}
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusAccepted.IsActive())
	assert.False(t, StatusCompleted.IsActive())

	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, Status("bogus").IsTerminal())

	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusAccepted.CanTransitionTo(StatusCancelled))

	_, err := ParseStatus("expired")
	assert.Error(t, err)
	st, err := ParseStatus("rejected")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, st)
}
