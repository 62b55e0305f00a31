//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/water-safety-service/internal/adapter/kafka"
	"github.com/couchcryptid/water-safety-service/internal/adapter/provider"
	"github.com/couchcryptid/water-safety-service/internal/assessment"
	"github.com/couchcryptid/water-safety-service/internal/config"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testEventsTopic = "test-water-safety-assessments"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("water-safety-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type eventMessage struct {
	Event   domain.AssessmentEvent
	Key     string
	Headers map[string]string
}

func readEvent(ctx context.Context, t *testing.T, reader *kafkago.Reader) eventMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read from events topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal event message")
	return eventMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestAssessmentEventsPublished runs a fallback assessment through the async
// Kafka publisher and reads both events back from the topic.
func TestAssessmentEventsPublished(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaEventsTopic: testEventsTopic,
	}
	metrics := observability.NewMetricsForTesting()
	publisher := kafkaadapter.NewPublisher(cfg, discardLogger(), metrics)

	oracle, err := assessment.NewOracle(nil, 0)
	require.NoError(t, err)
	assessor := assessment.New(oracle, domain.DefaultStandards(), publisher, discardLogger(), metrics)

	fixtures, err := provider.NewFixtures(nil)
	require.NoError(t, err)
	rec, err := fixtures.FetchWaterQualityData(ctx, 40.7128, -74.006, "City Hall")
	require.NoError(t, err)

	verdict := assessor.Assess(ctx, rec)
	assert.Equal(t, domain.StatusSafe, verdict.SafetyStatus)

	// Close flushes the async writer.
	require.NoError(t, publisher.Close())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EventsPublished))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EventsFailed))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testEventsTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = reader.Close() })

	failed := readEvent(ctx, t, reader)
	completed := readEvent(ctx, t, reader)

	assert.Equal(t, domain.EventOracleFailed, failed.Event.Type)
	assert.Equal(t, domain.ReasonDisabled, failed.Event.Reason)
	assert.Equal(t, failed.Event.ID, failed.Key)
	assert.Equal(t, domain.EventOracleFailed, failed.Headers["event_type"])

	assert.Equal(t, domain.EventAssessmentCompleted, completed.Event.Type)
	assert.Equal(t, domain.SourceFallback, completed.Event.Source)
	assert.Equal(t, domain.StatusSafe, completed.Event.SafetyStatus)
	assert.Equal(t, 40.7128, completed.Event.Latitude)
	assert.NotEmpty(t, completed.Headers["occurred_at"])
}
