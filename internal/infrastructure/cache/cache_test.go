package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisOperatorDirectory_UpsertGetList(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	dir := NewRedisOperatorDirectory(client)

	require.NoError(t, dir.Upsert(ctx, &operator.Availability{
		ID: "op-b", Online: true, ActiveConversations: 3, Tags: []string{"Billing", "vip"}, Email: "b@example.com",
	}))
	require.NoError(t, dir.Upsert(ctx, &operator.Availability{ID: "op-a", Blocked: true}))

	got, err := dir.Get(ctx, "op-b")
	require.NoError(t, err)
	assert.True(t, got.Online)
	assert.False(t, got.Blocked)
	assert.Equal(t, 3, got.ActiveConversations)
	assert.Equal(t, []string{"billing", "vip"}, got.Tags)
	assert.Equal(t, "b@example.com", got.Email)

	all, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "op-a", all[0].ID)
	assert.True(t, all[0].Blocked)
	assert.Nil(t, all[0].Tags)
	assert.Equal(t, "op-b", all[1].ID)
}

func TestRedisOperatorDirectory_GetUnknown(t *testing.T) {
	client, _ := setupTestRedis(t)
	_, err := NewRedisOperatorDirectory(client).Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, operator.ErrOperatorNotFound)
}

func TestRedisOperatorDirectory_SetOnline(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	dir := NewRedisOperatorDirectory(client)

	require.NoError(t, dir.Upsert(ctx, &operator.Availability{ID: "op-1", ActiveConversations: 2}))
	require.NoError(t, dir.SetOnline(ctx, "op-1", true))

	got, err := dir.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.True(t, got.Online)
	assert.Equal(t, 2, got.ActiveConversations)

	// unknown operators get registered
	require.NoError(t, dir.SetOnline(ctx, "op-2", true))
	all, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, dir.SetOnline(ctx, "op-1", false))
	got, err = dir.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.False(t, got.Online)
}

func TestRedisOperatorDirectory_ListSkipsMissingHashes(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	dir := NewRedisOperatorDirectory(client)

	require.NoError(t, dir.Upsert(ctx, &operator.Availability{ID: "op-1"}))
	_, err := mr.SAdd(operatorSetKey, "op-gone")
	require.NoError(t, err)

	all, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "op-1", all[0].ID)
}

func TestRedisConversationRegistry(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	reg := NewRedisConversationRegistry(client)

	_, err := reg.OperatorOf(ctx, "conv-1")
	assert.ErrorIs(t, err, conversation.ErrConversationNotFound)

	require.NoError(t, reg.SetOperatorOfRecord(ctx, "conv-1", "op-a"))
	op, err := reg.OperatorOf(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "op-a", op)

	require.NoError(t, reg.SetOperatorOfRecord(ctx, "conv-1", "op-b"))
	op, err = reg.OperatorOf(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "op-b", op)
}

func TestRedisOperatorDirectory_FoldsSkills(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	dir := NewRedisOperatorDirectory(client)

	require.NoError(t, dir.Upsert(ctx, &operator.Availability{ID: "op-1", Online: true, Tags: []string{"Straße", " VIP "}}))
	got, err := dir.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"strasse", "vip"}, got.Tags)
	assert.True(t, got.HasAnyTag(queue.NormalizeTags([]string{"STRASSE"})))
	assert.True(t, got.HasAnyTag(queue.NormalizeTags([]string{"straße"})))

	// a hash written by another service without folding
	mr.SAdd(operatorSetKey, "op-2")
	mr.HSet(operatorKeyPrefix+"op-2", fieldOnline, "1", fieldTags, "Straße,Billing")
	got, err = dir.Get(ctx, "op-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "strasse"}, got.Tags)
}

func TestRedisOperatorDirectory_PresenceAcrossInstances(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	dir := NewRedisOperatorDirectory(client)

	require.NoError(t, dir.MarkConnected(ctx, "op-1", "instance-a"))
	require.NoError(t, dir.MarkConnected(ctx, "op-1", "instance-b"))

	left, err := dir.MarkDisconnected(ctx, "op-1", "instance-a")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	got, err := dir.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.True(t, got.Online, "instance-b still holds a session")

	left, err = dir.MarkDisconnected(ctx, "op-1", "instance-b")
	require.NoError(t, err)
	assert.Equal(t, 0, left)
	got, err = dir.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.False(t, got.Online)

	// repeated disconnects are harmless
	left, err = dir.MarkDisconnected(ctx, "op-1", "instance-b")
	require.NoError(t, err)
	assert.Equal(t, 0, left)
}
