package domain

import (
	"context"
	"errors"
)

var (
	// ErrOracleDisabled is returned when no narrative generator is configured.
	ErrOracleDisabled = errors.New("narrative oracle disabled")
	// ErrEmptyNarrative is returned by generators that received no text.
	ErrEmptyNarrative = errors.New("empty narrative")
)

// NarrativeGenerator turns a prompt into free text, typically via an LLM.
type NarrativeGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// WaterDataProvider looks up the water record for a location. It returns a
// fully populated record or an error, never a partial record.
type WaterDataProvider interface {
	FetchWaterQualityData(ctx context.Context, latitude, longitude float64, address string) (WaterRecord, error)
}

// EventSink receives assessment events. Publish must not block the caller on
// delivery and has no error to report.
type EventSink interface {
	Publish(ctx context.Context, event AssessmentEvent)
}
