package kafka

import (
	"context"

	"github.com/turtacn/H2Siting/pkg/types/common"
)

// Publisher is the subset of Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// EventPublisher wraps domain events in an envelope and writes them to the
// topic derived from the event type.
type EventPublisher struct {
	producer Publisher
	prefix   string
	source   string
}

func NewEventPublisher(producer Publisher, topicPrefix, source string) *EventPublisher {
	return &EventPublisher{producer: producer, prefix: topicPrefix, source: source}
}

// PublishEvent sends event keyed by its aggregate id.
func (p *EventPublisher) PublishEvent(ctx context.Context, event common.DomainEvent) error {
	env, err := NewEventEnvelope(event.EventType(), p.source, event)
	if err != nil {
		return err
	}
	env.EventID = event.EventID()
	env.Timestamp = event.OccurredAt()

	msg, err := env.ToMessage(TopicName(p.prefix, event.EventType()), event.AggregateID())
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

//Personal.AI order the ending
