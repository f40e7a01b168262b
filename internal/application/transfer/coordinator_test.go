package transfer_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/usecases"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/cache"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/migration"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/repository"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/services"
	"github.com/Saaayurii/Chat-sub000/internal/shared/db"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type fixture struct {
	coordinator *transfer.TransferCoordinator
	hub         *services.OperatorHub
	registry    *cache.RedisConversationRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logger.NewNop()
	require.NoError(t, migration.NewAutoMigrateStrategy(log).Migrate(gdb))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := services.NewOperatorHub(log, nil)
	registry := cache.NewRedisConversationRegistry(client)

	coordinator := transfer.NewTransferCoordinator(transfer.Dependencies{
		Transfers: repository.NewTransferRequestRepository(gdb),
		Queue:     repository.NewQueueEntryRepository(gdb),
		Directory: cache.NewRedisOperatorDirectory(client),
		Store:     registry,
		TxManager: db.NewTransactionManager(gdb),
		Notifier:  hub,
		Logger:    log,
	})

	return &fixture{coordinator: coordinator, hub: hub, registry: registry}
}

// console opens a hub session joined to operatorID.
func (f *fixture) console(t *testing.T, operatorID string) *services.OperatorSession {
	t.Helper()
	s, err := f.hub.Open("test")
	require.NoError(t, err)
	require.NoError(t, f.hub.Join(s.ID, operatorID))
	return s
}

func drainTypes(s *services.OperatorSession) []string {
	var types []string
	for {
		select {
		case data := <-s.Send:
			var msg protocol.ServerMessage
			if err := json.Unmarshal(data, &msg); err == nil {
				types = append(types, msg.Type)
			}
		default:
			return types
		}
	}
}

func TestCoordinator_RequestThenDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	consoleB := f.console(t, "B")

	req, err := f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "A",
		ToOperatorID:   "B",
		ConversationID: "C107",
		VisitorID:      "V9",
		Reason:         "needs billing expertise",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", req.Status)
	assert.Contains(t, drainTypes(consoleB), protocol.EventTransferOffered)

	_, err = f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "A",
		ToOperatorID:   "D",
		ConversationID: "C107",
		VisitorID:      "V9",
	})
	assert.True(t, errors.IsConflictError(err))
}

func TestCoordinator_AcceptNotifiesBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	consoleA := f.console(t, "A")
	consoleB := f.console(t, "B")

	req, err := f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "A", ToOperatorID: "B", ConversationID: "C107", VisitorID: "V9",
	})
	require.NoError(t, err)
	drainTypes(consoleB)

	done, err := f.coordinator.RespondTransfer.Execute(ctx, usecases.RespondTransferCommand{
		TransferID: req.ID, Accepted: true, RespondedBy: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.RespondedAt)
	require.NotNil(t, done.CompletedAt)

	assert.Contains(t, drainTypes(consoleA), protocol.EventTransferResponded)
	assert.Contains(t, drainTypes(consoleB), protocol.EventTransferCompleted)

	owner, err := f.registry.OperatorOf(ctx, "C107")
	require.NoError(t, err)
	assert.Equal(t, "B", owner)

	// the conversation is free for a new request once resolved
	_, err = f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "B", ToOperatorID: "A", ConversationID: "C107", VisitorID: "V9",
	})
	assert.NoError(t, err)
}

func TestCoordinator_PriorityOrderAndAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v20, err := f.coordinator.Enqueue.Execute(ctx, usecases.EnqueueCommand{VisitorID: "V20", ConversationID: "C20"})
	require.NoError(t, err)
	v21, err := f.coordinator.Enqueue.Execute(ctx, usecases.EnqueueCommand{VisitorID: "V21", ConversationID: "C21", Priority: 5})
	require.NoError(t, err)

	pos21, err := f.coordinator.QueuePosition.Execute(ctx, usecases.QueuePositionQuery{QueueID: v21.Entry.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, pos21.Position)

	pos20, err := f.coordinator.QueuePosition.Execute(ctx, usecases.QueuePositionQuery{QueueID: v20.Entry.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, pos20.Position)
	assert.Equal(t, int64(600), pos20.EstimatedWaitSeconds)

	consoleO1 := f.console(t, "O1")
	assigned, err := f.coordinator.AssignNext.Execute(ctx, usecases.AssignNextCommand{OperatorID: "O1"})
	require.NoError(t, err)
	require.NotNil(t, assigned)
	assert.Equal(t, "V21", assigned.VisitorID)
	assert.Contains(t, drainTypes(consoleO1), protocol.EventQueueEntryAssigned)

	owner, err := f.registry.OperatorOf(ctx, "C21")
	require.NoError(t, err)
	assert.Equal(t, "O1", owner)

	stats, err := f.coordinator.QueueStats.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalQueued)

	pos20, err = f.coordinator.QueuePosition.Execute(ctx, usecases.QueuePositionQuery{QueueID: v20.Entry.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, pos20.Position)
}

func TestCoordinator_AutoAssignWithoutOperatorsEnqueues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.coordinator.AutoAssign.Execute(ctx, usecases.AutoAssignCommand{VisitorID: "V30", ConversationID: "C30"})
	require.NoError(t, err)
	assert.Nil(t, result.Assignment)
	require.NotNil(t, result.QueueEntry)
	assert.Equal(t, "V30", result.QueueEntry.VisitorID)

	_, err = f.coordinator.Enqueue.Execute(ctx, usecases.EnqueueCommand{VisitorID: "V30", ConversationID: "C31"})
	assert.True(t, errors.IsConflictError(err))
}

func TestCoordinator_CancelTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "A", ToOperatorID: "B", ConversationID: "C1", VisitorID: "V1",
	})
	require.NoError(t, err)

	cancelled, err := f.coordinator.CancelTransfer.Execute(ctx, usecases.CancelTransferCommand{TransferID: req.ID, CancelledBy: "A"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = f.coordinator.CancelTransfer.Execute(ctx, usecases.CancelTransferCommand{TransferID: req.ID, CancelledBy: "A"})
	assert.True(t, errors.IsInvalidStateError(err))

	_, err = f.coordinator.RespondTransfer.Execute(ctx, usecases.RespondTransferCommand{TransferID: req.ID, Accepted: true, RespondedBy: "B"})
	assert.True(t, errors.IsInvalidStateError(err))
}

func TestCoordinator_RejectLeavesCompletedAtEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.coordinator.RequestTransfer.Execute(ctx, usecases.RequestTransferCommand{
		FromOperatorID: "A", ToOperatorID: "B", ConversationID: "C2", VisitorID: "V2",
	})
	require.NoError(t, err)

	rejected, err := f.coordinator.RespondTransfer.Execute(ctx, usecases.RespondTransferCommand{
		TransferID: req.ID, Accepted: false, Reason: "busy", RespondedBy: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.NotNil(t, rejected.RespondedAt)
	assert.Nil(t, rejected.CompletedAt)

	history, err := f.coordinator.History.Execute(ctx, usecases.TransferHistoryQuery{OperatorID: "B"})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, req.ID, history[0].ID)
}

func TestCoordinator_BulkAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coordinator.Enqueue.Execute(ctx, usecases.EnqueueCommand{VisitorID: "V1", ConversationID: "C1"})
	require.NoError(t, err)

	result, err := f.coordinator.BulkAssign.Execute(ctx, usecases.BulkAssignCommand{OperatorIDs: []string{"O1", "O2"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Assigned)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "V1", result.Results[0].Entry.VisitorID)
	assert.Nil(t, result.Results[1].Entry)
}
