package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Saaayurii/Chat-sub000/internal/shared/config"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const dialTimeout = 30 * time.Second

// RabbitSink publishes envelopes to a topic exchange with publisher confirms.
// The routing key is the event type.
type RabbitSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   logger.Interface
}

func NewRabbitSink(ctx context.Context, cfg config.RabbitMQConfig, log logger.Interface) (*RabbitSink, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq URL is required")
	}

	host := ""
	if u, err := url.Parse(cfg.URL); err == nil {
		host = u.Host
	}
	log.Infow("connecting to rabbitmq", "host", host, "exchange", cfg.Exchange)

	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("confirm mode: %w", err)
	}

	return &RabbitSink{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Exchange,
		logger:   log,
	}, nil
}

func (s *RabbitSink) Send(ctx context.Context, env Envelope) error {
	if env.Meta.ID == "" {
		return fmt.Errorf("envelope.Meta.ID is required")
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	producer := ""
	if env.Meta.Producer != nil {
		producer = *env.Meta.Producer
	}

	s.mu.Lock()
	dc, err := s.ch.PublishWithDeferredConfirmWithContext(ctx, s.exchange, env.Meta.Type, false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.Meta.ID,
		CorrelationId: env.Key(),
		Type:          env.Meta.Type,
		Timestamp:     env.Meta.Time,
		AppId:         producer,
	})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s: %w", env.Meta.Type, err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm for %s: %w", env.Meta.ID, err)
	}
	if !acked {
		return fmt.Errorf("broker nacked %s", env.Meta.ID)
	}
	return nil
}

func (s *RabbitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
