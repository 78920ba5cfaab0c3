package booking

import (
	"context"

	kafkax "github.com/ariefcatur/go-hotel-reservations/internal/kafka"
)

// KafkaPublisher hands envelopes to the async producer.
type KafkaPublisher struct {
	Producer    *kafkax.Producer
	ServiceName string
}

func (p *KafkaPublisher) Publish(_ context.Context, topic string, env Envelope) {
	if env.Producer == "" {
		env.Producer = p.ServiceName
	}
	p.Producer.Publish(topic, []byte(env.CorrelationID), kafkax.MustMarshal(env),
		kafkax.EventHeaders(env.EventType, env.EventVersion)...)
}
