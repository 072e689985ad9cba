package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	pkgkafka "MarketLens/pkg/kafka"
)

// KafkaPublisher emits assessment events keyed by symbol.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func assessmentEvent(a *models.Assessment) map[string]interface{} {
	return map[string]interface{}{
		"symbol":     a.Symbol,
		"ts":         a.Timestamp.UnixMilli(),
		"bias":       a.Signals.MarketBias,
		"strength":   a.Signals.SignalStrength,
		"confidence": a.Confidence,
		"headline":   a.Narrative.Headline,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a *models.Assessment) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Symbol), assessmentEvent(a))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, as []*models.Assessment) error {
	if len(as) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(as))
	for i, a := range as {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.Symbol),
			Value: assessmentEvent(a),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
