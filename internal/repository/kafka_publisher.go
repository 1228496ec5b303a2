package repository

import (
	"context"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/domain/repository"
	pkgkafka "FundMonitor/pkg/kafka"
)

// CycleProducer is the subset of pkg/kafka.Producer the publisher needs.
type CycleProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

var _ CycleProducer = (*pkgkafka.Producer)(nil)

// KafkaCyclePublisher writes cycle events as JSON, keyed by cycle id.
type KafkaCyclePublisher struct {
	producer CycleProducer
	topic    string
}

// NewKafkaCyclePublisher creates a Kafka-backed CyclePublisher.
func NewKafkaCyclePublisher(producer CycleProducer, topic string) repository.CyclePublisher {
	return &KafkaCyclePublisher{producer: producer, topic: topic}
}

func (p *KafkaCyclePublisher) Publish(ctx context.Context, ev *models.CycleEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.CycleID), ev)
}

func (p *KafkaCyclePublisher) Close() error {
	return p.producer.Close()
}

// NopCyclePublisher drops every event; used when Kafka is disabled.
type NopCyclePublisher struct{}

func (NopCyclePublisher) Publish(context.Context, *models.CycleEvent) error { return nil }
func (NopCyclePublisher) Close() error                                      { return nil }
