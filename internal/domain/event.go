package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventAssessmentCompleted = "assessment.completed"
	EventOracleFailed        = "oracle.failed"
)

// Verdict sources.
const (
	SourceOracle   = "oracle"
	SourceFallback = "fallback"
)

// Fallback reasons.
const (
	ReasonDisabled    = "disabled"
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "unavailable"
	ReasonValidation  = "validation"
)

// AssessmentEvent is the structured record sent to the observability sink.
type AssessmentEvent struct {
	ID              string       `json:"id"`
	Type            string       `json:"event_type"`
	Source          string       `json:"source,omitempty"`
	Reason          string       `json:"reason,omitempty"`
	Error           string       `json:"error,omitempty"`
	SafetyStatus    SafetyStatus `json:"safety_status,omitempty"`
	ConfidenceLevel int          `json:"confidence_level,omitempty"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	DurationMs      int64        `json:"duration_ms"`
	OccurredAt      time.Time    `json:"occurred_at"`
}

// NewAssessmentEvent stamps a new event with an id, occurring at the given time.
func NewAssessmentEvent(eventType string, loc Location, at time.Time) AssessmentEvent {
	return AssessmentEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		OccurredAt: at.UTC(),
	}
}
