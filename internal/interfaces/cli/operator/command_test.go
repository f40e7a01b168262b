package operator

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/cache"
)

func newDirectory(t *testing.T) *cache.RedisOperatorDirectory {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisOperatorDirectory(client)
}

func TestApplySet(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)

	a, err := applySet(ctx, d, "op-1", setOptions{
		tags:   []string{"Billing", "Straße"},
		email:  "op1@example.com",
		active: 2,
		online: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "strasse"}, a.Tags)
	assert.True(t, a.IsAvailable())
	assert.Equal(t, 2, a.ActiveConversations)

	_, err = applySet(ctx, d, "bad id!", setOptions{})
	assert.Error(t, err)
	_, err = applySet(ctx, d, "op-2", setOptions{active: -1})
	assert.Error(t, err)
}

func TestPrintOperators(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	_, err := applySet(ctx, d, "op-1", setOptions{tags: []string{"vip"}, online: true})
	require.NoError(t, err)

	operators, err := d.List(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	printOperators(&buf, operators)
	assert.Contains(t, buf.String(), "ID")
	assert.Contains(t, buf.String(), "op-1")
	assert.Contains(t, buf.String(), "vip")
}
