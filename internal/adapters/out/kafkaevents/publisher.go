// Package kafkaevents publishes committed domain events to a Kafka topic. The
// message key is the aggregate id so that all events of one order land on
// the same partition in order.
package kafkaevents

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
)

// EventNameHeader carries the event name so consumers can route without
// decoding the payload.
const EventNameHeader = "event-name"

const tracerName = "github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/kafkaevents"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the message value.
type Envelope struct {
	Name        string             `json:"name"`
	AggregateID kernel.UUID        `json:"aggregateId"`
	PublishedAt time.Time          `json:"publishedAt"`
	Payload     kernel.DomainEvent `json:"payload"`
}

// Publisher implements ports.EventPublisher on top of kafka-go.
type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewWriter builds the writer used in production. Hash balancing keeps one
// order on one partition.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer MessageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		logger: logger.With("component", "kafka_publisher"),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// Publish writes all events in one batch. Failures are logged; the
// operation that raised the events has already committed.
func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) {
	if len(events) == 0 {
		return
	}

	ctx, span := p.tracer.Start(ctx, "kafka.publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(attribute.Int("messaging.batch.message_count", len(events)))

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.message(ctx, event)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to encode event", "event", event.EventName(), "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "Failed to publish events", "count", len(messages), "error", err)
		return
	}
	p.logger.DebugContext(ctx, "Published events", "count", len(messages))
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(ctx context.Context, event kernel.DomainEvent) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		Name:        event.EventName(),
		AggregateID: event.AggregateID(),
		PublishedAt: p.now().UTC(),
		Payload:     event,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	carrier := headerCarrier{{Key: EventNameHeader, Value: []byte(event.EventName())}}
	otel.GetTextMapPropagator().Inject(ctx, &carrier)

	return kafka.Message{
		Key:     []byte(event.AggregateID().String()),
		Value:   value,
		Headers: carrier,
	}, nil
}

// headerCarrier lets the otel propagator write into Kafka headers.
type headerCarrier []kafka.Header

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}
