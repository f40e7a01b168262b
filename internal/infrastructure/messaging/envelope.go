// Package messaging carries domain events out of the process. Every event
// travels as an Envelope whose Meta.Type names the event and its version,
// e.g. transfer.requested.v1.
package messaging

import (
	"time"

	"github.com/google/uuid"
)

type Meta struct {
	// CorrelationID groups events of one conversation.
	CorrelationID *string `json:"correlation_id,omitempty"`
	ID            string  `json:"id"`
	// Producer names the emitting service.
	Producer *string   `json:"producer,omitempty"`
	Time     time.Time `json:"time"`
	Type     string    `json:"type"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope stamps a fresh event id. Empty producer or correlation ids are omitted.
func NewEnvelope(eventType, producer, correlationID string, data any, at time.Time) Envelope {
	env := Envelope{
		Meta: Meta{
			ID:   uuid.NewString(),
			Time: at.UTC(),
			Type: eventType,
		},
		Data: data,
	}
	if producer != "" {
		env.Meta.Producer = &producer
	}
	if correlationID != "" {
		env.Meta.CorrelationID = &correlationID
	}
	return env
}

// Key returns the partition or routing key: the correlation id when set, else the event id.
func (e Envelope) Key() string {
	if e.Meta.CorrelationID != nil && *e.Meta.CorrelationID != "" {
		return *e.Meta.CorrelationID
	}
	return e.Meta.ID
}
