package observability

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/water-safety-service/internal/domain"
)

// LogSink writes assessment events to the structured log. It is the sink used
// when Kafka publishing is disabled.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish logs the event at INFO, or WARN for oracle failures.
func (s *LogSink) Publish(ctx context.Context, event domain.AssessmentEvent) {
	level := slog.LevelInfo
	if event.Type == domain.EventOracleFailed {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "assessment event",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.String("source", event.Source),
		slog.String("reason", event.Reason),
		slog.String("error", event.Error),
		slog.String("safety_status", string(event.SafetyStatus)),
		slog.Int("confidence_level", event.ConfidenceLevel),
		slog.Float64("latitude", event.Latitude),
		slog.Float64("longitude", event.Longitude),
		slog.Int64("duration_ms", event.DurationMs),
	)
}
