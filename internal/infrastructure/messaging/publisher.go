package messaging

import (
	"context"
	"time"
)

// Publisher wraps payloads into envelopes stamped with the service's producer name.
type Publisher struct {
	sink     Sink
	producer string
	now      func() time.Time
}

func NewPublisher(sink Sink, producer string) *Publisher {
	return &Publisher{sink: sink, producer: producer, now: time.Now}
}

// Publish sends data as eventType. key correlates related events, usually the conversation id.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, data any) error {
	return p.sink.Send(ctx, NewEnvelope(eventType, p.producer, key, data, p.now()))
}
