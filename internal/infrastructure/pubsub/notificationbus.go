package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/goroutine"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const notificationChannel = "chatrouter:notify"

// LocalDeliverer hands an encoded message to the sessions held by this process.
type LocalDeliverer interface {
	Deliver(channel string, data []byte) error
}

// NotificationEnvelope is the relay form of a notification between instances.
type NotificationEnvelope struct {
	InstanceID string          `json:"instance_id"`
	Channel    string          `json:"channel"`
	Message    json.RawMessage `json:"message"`
}

// RedisNotificationBus publishes notifications to local sessions and relays
// them through Redis Pub/Sub to sessions held by other instances.
type RedisNotificationBus struct {
	client     *redis.Client
	local      LocalDeliverer
	logger     logger.Interface
	instanceID string
}

func NewRedisNotificationBus(client *redis.Client, local LocalDeliverer, log logger.Interface) *RedisNotificationBus {
	return &RedisNotificationBus{
		client:     client,
		local:      local,
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this process among the instances sharing Redis.
func (b *RedisNotificationBus) InstanceID() string {
	return b.instanceID
}

// Publish delivers locally first, then relays. A relay failure is returned
// after local sessions already have the message.
func (b *RedisNotificationBus) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := protocol.Encode(channel, event, payload, biztime.NowUTC())
	if err != nil {
		return err
	}

	if err := b.local.Deliver(channel, data); err != nil {
		b.logger.Warnw("local notification delivery failed",
			"channel", channel,
			"event", event,
			"error", err,
		)
	}

	envelope, err := json.Marshal(&NotificationEnvelope{
		InstanceID: b.instanceID,
		Channel:    channel,
		Message:    data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}

	if err := b.client.Publish(ctx, notificationChannel, envelope).Err(); err != nil {
		b.logger.Errorw("failed to relay notification",
			"channel", channel,
			"event", event,
			"error", err,
		)
		return fmt.Errorf("failed to relay notification: %w", err)
	}

	b.logger.Debugw("notification published", "channel", channel, "event", event)
	return nil
}

// Run relays notifications from other instances to local sessions until ctx is done.
func (b *RedisNotificationBus) Run(ctx context.Context) error {
	return b.subscribeWithReconnect(ctx, notificationChannel, b.handle)
}

func (b *RedisNotificationBus) handle(payload string) {
	var env NotificationEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warnw("failed to unmarshal notification envelope", "error", err)
		return
	}

	// already delivered locally by Publish
	if env.InstanceID == b.instanceID {
		return
	}

	if err := b.local.Deliver(env.Channel, env.Message); err != nil {
		b.logger.Warnw("relayed notification not delivered",
			"channel", env.Channel,
			"error", err,
		)
	}
}

// reconnectBackoff doubles the wait after each failed attempt up to ceiling.
type reconnectBackoff struct {
	initial time.Duration
	ceiling time.Duration
	current time.Duration
}

func newReconnectBackoff(initial, ceiling time.Duration) *reconnectBackoff {
	return &reconnectBackoff{initial: initial, ceiling: ceiling, current: initial}
}

// Next returns the wait before the next attempt and grows the following one.
func (r *reconnectBackoff) Next() time.Duration {
	wait := r.current
	r.current = min(r.current*2, r.ceiling)
	return wait
}

// Reset is called once a subscription is confirmed.
func (r *reconnectBackoff) Reset() {
	r.current = r.initial
}

func (b *RedisNotificationBus) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := newReconnectBackoff(time.Second, 30*time.Second)

	for {
		err := b.subscribe(ctx, channel, handler, backoff.Reset)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := backoff.Next()
		b.logger.Warnw("notification subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", wait,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// subscribe handles messages on the receiving goroutine so relayed
// notifications keep their publish order. onReady runs once Redis confirms
// the subscription.
func (b *RedisNotificationBus) subscribe(ctx context.Context, channel string, handler func(payload string), onReady func()) error {
	ps := b.client.Subscribe(ctx, channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}
	onReady()

	b.logger.Infow("subscribed to notification channel", "channel", channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			goroutine.Run(b.logger, "notification-relay", func() {
				handler(msg.Payload)
			})
		}
	}
}
