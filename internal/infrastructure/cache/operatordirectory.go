package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
)

const (
	// operatorSetKey indexes every operator known to the directory.
	operatorSetKey = "chatrouter:operators"
	// operatorKeyPrefix prefixes one hash per operator.
	operatorKeyPrefix = "chatrouter:operator:"
	// presenceKeyPrefix prefixes one hash per operator of instance id -> connected-at millis.
	presenceKeyPrefix = "chatrouter:presence:"

	fieldOnline  = "online"
	fieldBlocked = "blocked"
	fieldActive  = "active_conversations"
	fieldTags    = "tags"
	fieldEmail   = "email"
)

// markConnectedScript records that an instance holds a session for the
// operator and flips the operator online.
// KEYS[1] = operator set, KEYS[2] = operator hash, KEYS[3] = presence hash
// ARGV[1] = operator id, ARGV[2] = instance id, ARGV[3] = connected-at millis
var markConnectedScript = redis.NewScript(`
redis.call('SADD', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[3], ARGV[2], ARGV[3])
redis.call('HSET', KEYS[2], 'online', '1')
return redis.call('HLEN', KEYS[3])
`)

// markDisconnectedScript drops the instance and flips the operator offline
// when no instance holds a session any more. Returns the instances left.
// KEYS[1] = operator hash, KEYS[2] = presence hash
// ARGV[1] = instance id
var markDisconnectedScript = redis.NewScript(`
redis.call('HDEL', KEYS[2], ARGV[1])
local left = redis.call('HLEN', KEYS[2])
if left == 0 then
	redis.call('HSET', KEYS[1], 'online', '0')
end
return left
`)

// RedisOperatorDirectory reads operator availability from Redis hashes
// maintained by the account service. Presence is the only field written here
// outside of seeding.
type RedisOperatorDirectory struct {
	client *redis.Client
}

func NewRedisOperatorDirectory(client *redis.Client) *RedisOperatorDirectory {
	return &RedisOperatorDirectory{client: client}
}

func (d *RedisOperatorDirectory) buildKey(operatorID string) string {
	return operatorKeyPrefix + operatorID
}

func (d *RedisOperatorDirectory) Get(ctx context.Context, operatorID string) (*operator.Availability, error) {
	fields, err := d.client.HGetAll(ctx, d.buildKey(operatorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read operator %s: %w", operatorID, err)
	}
	if len(fields) == 0 {
		return nil, operator.ErrOperatorNotFound
	}
	return parseAvailability(operatorID, fields), nil
}

// List returns every indexed operator sorted by id. Ids whose hash vanished are skipped.
func (d *RedisOperatorDirectory) List(ctx context.Context) ([]*operator.Availability, error) {
	ids, err := d.client.SMembers(ctx, operatorSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	pipe := d.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, d.buildKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read operators: %w", err)
	}

	result := make([]*operator.Availability, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		result = append(result, parseAvailability(ids[i], fields))
	}
	return result, nil
}

// SetOnline records presence for an operator, registering it when unknown.
func (d *RedisOperatorDirectory) SetOnline(ctx context.Context, operatorID string, online bool) error {
	pipe := d.client.TxPipeline()
	pipe.SAdd(ctx, operatorSetKey, operatorID)
	pipe.HSet(ctx, d.buildKey(operatorID), fieldOnline, formatBool(online))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set presence for %s: %w", operatorID, err)
	}
	return nil
}

// MarkConnected records that instanceID holds at least one session of the
// operator and marks the operator online.
func (d *RedisOperatorDirectory) MarkConnected(ctx context.Context, operatorID, instanceID string) error {
	keys := []string{operatorSetKey, d.buildKey(operatorID), presenceKeyPrefix + operatorID}
	if err := markConnectedScript.Run(ctx, d.client, keys, operatorID, instanceID, biztime.NowUTC().UnixMilli()).Err(); err != nil {
		return fmt.Errorf("failed to mark %s connected: %w", operatorID, err)
	}
	return nil
}

// MarkDisconnected removes instanceID from the operator's presence and marks
// the operator offline once no instance is left. It returns how many
// instances still hold a session.
func (d *RedisOperatorDirectory) MarkDisconnected(ctx context.Context, operatorID, instanceID string) (int, error) {
	keys := []string{d.buildKey(operatorID), presenceKeyPrefix + operatorID}
	left, err := markDisconnectedScript.Run(ctx, d.client, keys, instanceID).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to mark %s disconnected: %w", operatorID, err)
	}
	return left, nil
}

// Upsert writes a full availability snapshot. Used when seeding the directory.
func (d *RedisOperatorDirectory) Upsert(ctx context.Context, a *operator.Availability) error {
	pipe := d.client.TxPipeline()
	pipe.SAdd(ctx, operatorSetKey, a.ID)
	pipe.HSet(ctx, d.buildKey(a.ID),
		fieldOnline, formatBool(a.Online),
		fieldBlocked, formatBool(a.Blocked),
		fieldActive, strconv.Itoa(a.ActiveConversations),
		fieldTags, strings.Join(queue.NormalizeTags(a.Tags), ","),
		fieldEmail, a.Email,
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert operator %s: %w", a.ID, err)
	}
	return nil
}

func parseAvailability(id string, fields map[string]string) *operator.Availability {
	active, _ := strconv.Atoi(fields[fieldActive])
	// hashes written by other services may carry unfolded skills
	var tags []string
	if raw := fields[fieldTags]; raw != "" {
		tags = queue.NormalizeTags(strings.Split(raw, ","))
	}
	return &operator.Availability{
		ID:                  id,
		ActiveConversations: active,
		Online:              fields[fieldOnline] == "1",
		Blocked:             fields[fieldBlocked] == "1",
		Tags:                tags,
		Email:               fields[fieldEmail],
	}
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
