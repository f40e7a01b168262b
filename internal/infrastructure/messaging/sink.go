package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/shared/config"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const (
	DriverNone     = "none"
	DriverRabbitMQ = "rabbitmq"
	DriverKafka    = "kafka"
)

// Sink delivers envelopes to a broker.
type Sink interface {
	Send(ctx context.Context, env Envelope) error
	Close() error
}

// LogSink only logs envelopes. It backs the "none" driver.
type LogSink struct {
	logger logger.Interface
}

func NewLogSink(log logger.Interface) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Send(_ context.Context, env Envelope) error {
	s.logger.Debugw("domain event",
		"type", env.Meta.Type,
		"id", env.Meta.ID,
		"key", env.Key(),
	)
	return nil
}

func (s *LogSink) Close() error { return nil }

// NewSink builds the sink selected by cfg.Driver.
func NewSink(ctx context.Context, cfg *config.EventsConfig, log logger.Interface) (Sink, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverNone:
		return NewLogSink(log), nil
	case DriverRabbitMQ:
		return NewRabbitSink(ctx, cfg.RabbitMQ, log)
	case DriverKafka:
		return NewKafkaSink(cfg.Kafka, log)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
