package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/Saaayurii/Chat-sub000/internal/shared/config"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// KafkaSink writes envelopes to one audit topic keyed by correlation id,
// so events of a conversation stay in one partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Interface
}

// NewSaramaConfig returns the producer settings used by the audit sink.
func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

func NewKafkaSink(cfg config.KafkaConfig, log logger.Interface) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	log.Infow("kafka audit sink ready", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewKafkaSinkWithProducer(producer, cfg.Topic, log), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string, log logger.Interface) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, logger: log}
}

func (s *KafkaSink) Send(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(env.Key()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(env.Meta.Type)},
			{Key: []byte("event_id"), Value: []byte(env.Meta.ID)},
		},
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s: %w", env.Meta.Type, err)
	}
	s.logger.Debugw("audit event written",
		"type", env.Meta.Type,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
