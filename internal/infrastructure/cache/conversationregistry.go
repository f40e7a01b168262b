package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Saaayurii/Chat-sub000/internal/domain/conversation"
)

// conversationKeyPrefix prefixes the operator-of-record key of a conversation.
const conversationKeyPrefix = "chatrouter:conversation:"

// RedisConversationRegistry stores the operator of record per conversation.
type RedisConversationRegistry struct {
	client *redis.Client
}

func NewRedisConversationRegistry(client *redis.Client) *RedisConversationRegistry {
	return &RedisConversationRegistry{client: client}
}

// buildKey format: chatrouter:conversation:{id}:operator
func (r *RedisConversationRegistry) buildKey(conversationID string) string {
	return conversationKeyPrefix + conversationID + ":operator"
}

func (r *RedisConversationRegistry) OperatorOf(ctx context.Context, conversationID string) (string, error) {
	op, err := r.client.Get(ctx, r.buildKey(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", conversation.ErrConversationNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read operator of %s: %w", conversationID, err)
	}
	return op, nil
}

func (r *RedisConversationRegistry) SetOperatorOfRecord(ctx context.Context, conversationID, operatorID string) error {
	if err := r.client.Set(ctx, r.buildKey(conversationID), operatorID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set operator of %s: %w", conversationID, err)
	}
	return nil
}
