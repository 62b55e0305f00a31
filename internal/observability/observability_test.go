package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestLogSink_Publish(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(newLogger(&buf, "info", "json"))

	event := domain.AssessmentEvent{
		ID:     "evt-1",
		Type:   domain.EventOracleFailed,
		Reason: domain.ReasonTimeout,
		Error:  "context deadline exceeded",
	}
	sink.Publish(context.Background(), event)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "evt-1", entry["event_id"])
	assert.Equal(t, domain.ReasonTimeout, entry["reason"])
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.Assessments.WithLabelValues(domain.SourceFallback, string(domain.StatusSafe)).Inc()
	m.OracleFailures.WithLabelValues(domain.ReasonValidation).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Assessments.WithLabelValues(domain.SourceFallback, string(domain.StatusSafe))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OracleFailures.WithLabelValues(domain.ReasonValidation)))
}

func TestNewMetricsWith_PrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.EventsPublished.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "water_safety_events_published_total")
	assert.Contains(t, names, "water_safety_oracle_enabled")
}
