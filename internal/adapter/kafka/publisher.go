package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/water-safety-service/internal/config"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher sends assessment events to a Kafka topic.
// It implements domain.EventSink.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates an asynchronous Kafka producer for the configured
// events topic. Delivery results are reported through metrics and logs.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	p := &Publisher{logger: logger, metrics: metrics}
	p.writer = &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaEventsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		Async:                  true,
		BatchTimeout:           100 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Completion:             p.onCompletion,
	}
	return p
}

// Publish enqueues the event. It never blocks on broker round trips.
func (p *Publisher) Publish(ctx context.Context, event domain.AssessmentEvent) {
	msg, err := serializeToMessage(event)
	if err != nil {
		p.metrics.EventsFailed.Inc()
		p.logger.Warn("serialize assessment event failed", "error", err, "event_id", event.ID)
		return
	}
	// The request context may be cancelled as soon as the handler returns;
	// the async writer only needs it for enqueueing.
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.metrics.EventsFailed.Inc()
		p.logger.Warn("enqueue assessment event failed", "error", err, "event_id", event.ID)
	}
}

func (p *Publisher) onCompletion(messages []kafkago.Message, err error) {
	if err != nil {
		p.metrics.EventsFailed.Add(float64(len(messages)))
		p.logger.Warn("assessment events not delivered", "error", err, "count", len(messages))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(messages)))
}

// Close flushes pending events and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an AssessmentEvent into a Kafka message keyed by event id.
func serializeToMessage(event domain.AssessmentEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
