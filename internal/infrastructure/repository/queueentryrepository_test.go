package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
)

func enqueue(t *testing.T, repo *QueueEntryRepository, visitor string, priority int, at time.Time, tags ...string) *queue.Entry {
	t.Helper()
	e, err := queue.NewEntry("qe_"+visitor, visitor, "C-"+visitor, priority, tags, at)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func position(t *testing.T, repo *QueueEntryRepository, e *queue.Entry) int {
	t.Helper()
	n, err := repo.CountAhead(context.Background(), e)
	require.NoError(t, err)
	return int(n) + 1
}

func TestQueueEntryRepository_CreateAndGet(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	e := enqueue(t, repo, "V20", 3, base, "Billing", "en")

	got, err := repo.GetBySID(ctx, "qe_V20")
	require.NoError(t, err)
	assert.Equal(t, e.ID(), got.ID())
	assert.Equal(t, queue.StatusQueued, got.Status())
	assert.Equal(t, []string{"billing", "en"}, got.Tags())
	assert.Equal(t, 3, got.Priority())

	_, err = repo.GetBySID(ctx, "qe_missing")
	assert.ErrorIs(t, err, queue.ErrEntryNotFound)

	active, err := repo.GetActiveByVisitor(ctx, "V20")
	require.NoError(t, err)
	require.NotNil(t, active)

	none, err := repo.GetActiveByVisitor(ctx, "V99")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestQueueEntryRepository_OneActivePerVisitor(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	e := enqueue(t, repo, "V1", 0, base)

	dup, err := queue.NewEntry("qe_dup", "V1", "C-other", 0, nil, base)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), queue.ErrActiveEntry)

	t.Run("assigned still holds the slot", func(t *testing.T) {
		require.NoError(t, e.Assign("O1", base.Add(time.Minute)))
		require.NoError(t, repo.Update(ctx, e))

		again, err := queue.NewEntry("qe_again", "V1", "C-other", 0, nil, base)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, again), queue.ErrActiveEntry)
	})

	t.Run("cancelled frees the slot", func(t *testing.T) {
		e.Cancel()
		require.NoError(t, repo.Update(ctx, e))

		fresh, err := queue.NewEntry("qe_fresh", "V1", "C-other", 0, nil, base)
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, fresh))
	})
}

func TestQueueEntryRepository_RankOrder(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	v20 := enqueue(t, repo, "V20", 0, base)
	v21 := enqueue(t, repo, "V21", 5, base.Add(time.Second))

	assert.Equal(t, 1, position(t, repo, v21))
	assert.Equal(t, 2, position(t, repo, v20))

	t.Run("each entry inserted ahead moves position by one", func(t *testing.T) {
		before := position(t, repo, v20)
		enqueue(t, repo, "V22", 1, base.Add(2*time.Second))
		assert.Equal(t, before+1, position(t, repo, v20))

		enqueue(t, repo, "V23", 0, base.Add(3*time.Second))
		assert.Equal(t, before+1, position(t, repo, v20), "later entry in the same tier queues behind")
	})

	t.Run("same millisecond stays FIFO by insertion", func(t *testing.T) {
		a := enqueue(t, repo, "V30", -1, base.Add(5*time.Second))
		b := enqueue(t, repo, "V31", -1, base.Add(5*time.Second))
		assert.Less(t, position(t, repo, a), position(t, repo, b))
	})

	total, err := repo.CountQueued(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)

	head, err := repo.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, "V21", head.VisitorID())
}

func TestQueueEntryRepository_HeadSkipsNonQueued(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	head, err := repo.Head(ctx)
	require.NoError(t, err)
	assert.Nil(t, head)

	first := enqueue(t, repo, "V1", 0, base)
	enqueue(t, repo, "V2", 0, base.Add(time.Second))

	require.NoError(t, first.Assign("O1", base.Add(time.Minute)))
	require.NoError(t, repo.Update(ctx, first))

	head, err = repo.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, "V2", head.VisitorID())
}

func TestQueueEntryRepository_UpdateVersionCheck(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	e := enqueue(t, repo, "V1", 0, base)
	stale, err := repo.GetBySID(ctx, e.SID())
	require.NoError(t, err)

	require.NoError(t, e.Assign("O1", base.Add(time.Second)))
	require.NoError(t, repo.Update(ctx, e))

	require.NoError(t, stale.Assign("O2", base.Add(time.Second)))
	assert.ErrorIs(t, repo.Update(ctx, stale), queue.ErrConcurrentUpdate)

	got, err := repo.GetBySID(ctx, e.SID())
	require.NoError(t, err)
	assert.Equal(t, "O1", got.AssignedOperatorID())
}

func TestQueueEntryRepository_AverageWait(t *testing.T) {
	repo := NewQueueEntryRepository(setupTestDB(t))
	ctx := context.Background()

	avg, err := repo.AverageWait(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)

	a := enqueue(t, repo, "V1", 0, base)
	b := enqueue(t, repo, "V2", 0, base)
	enqueue(t, repo, "V3", 0, base)

	require.NoError(t, a.Assign("O1", base.Add(60*time.Second)))
	require.NoError(t, repo.Update(ctx, a))
	require.NoError(t, b.Assign("O2", base.Add(120*time.Second)))
	require.NoError(t, repo.Update(ctx, b))

	// assigned then cancelled still counts
	b.Cancel()
	require.NoError(t, repo.Update(ctx, b))

	avg, err = repo.AverageWait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, avg)
}
