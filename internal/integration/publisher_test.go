//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/ecoshield/climate-insight/internal/adapter/kafka"
	"github.com/ecoshield/climate-insight/internal/config"
	"github.com/ecoshield/climate-insight/internal/domain"
)

const testTopic = "test-assessments"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisherRoundTrip publishes assessment events through the adapter and
// reads them back, verifying keys, headers, and payloads survive the trip.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	events := []domain.AssessmentEvent{
		domain.NewAssessmentEvent(domain.AssessmentSuitability, -1.2921, 36.8219, "2006-01", "2026-08", 97, 240),
		domain.NewAssessmentEvent(domain.AssessmentStability, -1.2921, 36.8219, "2006-01", "2026-08", 80, 240),
	}
	require.NoError(t, publisher.PublishAssessments(ctx, events))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[domain.AssessmentKind]domain.AssessmentEvent, len(events))
	for len(received) < len(events) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from assessment topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}

		var event domain.AssessmentEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))

		assert.Equal(t, event.ID, string(msg.Key))
		assert.Equal(t, string(event.Kind), headers["kind"])
		_, err = time.Parse(time.RFC3339, headers["computed_at"])
		assert.NoError(t, err, "computed_at should be valid RFC3339")

		received[event.Kind] = event
	}

	suitability, ok := received[domain.AssessmentSuitability]
	require.True(t, ok, "expected a suitability event")
	assert.Equal(t, 97, suitability.Score)
	assert.Equal(t, 240, suitability.Records)
	assert.Equal(t, "2006-01", suitability.PeriodStart)
	assert.Equal(t, "2026-08", suitability.PeriodEnd)
	assert.InDelta(t, -1.2921, suitability.Lat, 1e-9)

	stability, ok := received[domain.AssessmentStability]
	require.True(t, ok, "expected a stability event")
	assert.Equal(t, 80, stability.Score)

	// Replaying the same computation must reuse the same event ID so
	// downstream consumers can dedupe.
	replay := domain.NewAssessmentEvent(domain.AssessmentSuitability, -1.2921, 36.8219, "2006-01", "2026-08", 97, 240)
	assert.Equal(t, suitability.ID, replay.ID)
}

// TestPublisherBatchOfOne covers the single-event path used by the live
// request handlers.
func TestPublisherBatchOfOne(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	event := domain.NewAssessmentEvent(domain.AssessmentStability, 40.7128, -74.006, "2000-01", "2020-12", 60, 252)
	require.NoError(t, publisher.PublishAssessments(ctx, []domain.AssessmentEvent{event}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	msg, err := consumer.ReadMessage(readCtx)
	readCancel()
	require.NoError(t, err)

	assert.Equal(t, event.ID, string(msg.Key))

	var got domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.Kind, got.Kind)
	assert.Equal(t, event.Score, got.Score)
}
