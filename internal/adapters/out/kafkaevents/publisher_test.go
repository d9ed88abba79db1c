package kafkaevents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/kafkaevents"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func statusChanged(orderID kernel.UUID, from, to order.Status, version int64) order.StatusChanged {
	return order.StatusChanged{
		OrderID: orderID,
		From:    from,
		To:      to,
		Intent:  order.IntentConfirm,
		ActorID: "seller-1",
		At:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Version: version,
	}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublish_WritesOneMessagePerEventKeyedByOrder(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	orderID := kernel.NewUUID()
	writer := new(MockWriter)
	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	publisher := kafkaevents.NewPublisher(writer, slog.Default())

	ctx, parent := tp.Tracer("test").Start(context.Background(), "confirm-order")
	publisher.Publish(ctx,
		statusChanged(orderID, order.PendingSellerConfirmation, order.Confirmed, 2),
		statusChanged(orderID, order.Confirmed, order.Shipped, 3),
	)
	parent.End()

	require.Len(t, written, 2)
	for _, msg := range written {
		assert.Equal(t, orderID.String(), string(msg.Key))
		assert.Equal(t, order.StatusChangedEventName, header(msg, kafkaevents.EventNameHeader))
		assert.Contains(t, header(msg, "traceparent"), parent.SpanContext().TraceID().String())
	}

	var envelope struct {
		Name        string `json:"name"`
		AggregateID string `json:"aggregateId"`
		Payload     struct {
			From    string `json:"from"`
			To      string `json:"to"`
			Version int64  `json:"version"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(written[1].Value, &envelope))
	assert.Equal(t, order.StatusChangedEventName, envelope.Name)
	assert.Equal(t, orderID.String(), envelope.AggregateID)
	assert.Equal(t, "Confirmed", envelope.Payload.From)
	assert.Equal(t, "Shipped", envelope.Payload.To)
	assert.Equal(t, int64(3), envelope.Payload.Version)
	writer.AssertExpectations(t)
}

func TestPublish_WriteFailure_IsLoggedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	publisher := kafkaevents.NewPublisher(writer, logger)
	publisher.Publish(context.Background(), statusChanged(kernel.NewUUID(), order.Placed, order.PendingSellerConfirmation, 1))

	assert.Contains(t, logs.String(), "broker down")
	assert.Contains(t, logs.String(), "kafka_publisher")
	writer.AssertExpectations(t)
}

func TestPublish_NoEvents_WritesNothing(t *testing.T) {
	writer := new(MockWriter)
	publisher := kafkaevents.NewPublisher(writer, slog.Default())

	publisher.Publish(context.Background())

	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestClose_ClosesWriter(t *testing.T) {
	writer := new(MockWriter)
	writer.On("Close").Return(nil).Once()

	require.NoError(t, kafkaevents.NewPublisher(writer, slog.Default()).Close())
	writer.AssertExpectations(t)
}
