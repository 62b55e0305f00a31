package assessment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// NarrativeSource produces the oracle's raw answer for a record.
type NarrativeSource interface {
	RequestNarrative(ctx context.Context, rec domain.WaterRecord) (string, error)
}

// Result is a verdict together with how it was reached.
type Result struct {
	Verdict domain.Verdict
	Source  string // domain.SourceOracle or domain.SourceFallback
	Reason  string // fallback reason, empty for oracle verdicts
}

// Assessor decides between the oracle's verdict and the rule evaluator.
type Assessor struct {
	oracle    NarrativeSource
	standards domain.Standards
	sink      domain.EventSink
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithClock sets the time source for event timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(a *Assessor) {
		if c != nil {
			a.clock = c
		}
	}
}

// New creates an Assessor. The standards table is copied; later changes to
// the argument do not affect assessments.
func New(oracle NarrativeSource, standards domain.Standards, sink domain.EventSink, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Assessor {
	a := &Assessor{
		oracle:    oracle,
		standards: standards.Clone(),
		sink:      sink,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Standards returns a copy of the table the Assessor evaluates against.
func (a *Assessor) Standards() domain.Standards {
	return a.standards.Clone()
}

// Assess returns a verdict for rec. It never fails: when the oracle is
// unavailable or its answer does not validate, the rule evaluator decides.
func (a *Assessor) Assess(ctx context.Context, rec domain.WaterRecord) domain.Verdict {
	return a.AssessDetailed(ctx, rec).Verdict
}

// AssessDetailed is Assess, also reporting the verdict source.
func (a *Assessor) AssessDetailed(ctx context.Context, rec domain.WaterRecord) Result {
	start := a.clock.Now()
	rec = rec.WithStandards(a.standards)

	res := a.fromOracle(ctx, rec)

	a.metrics.Assessments.WithLabelValues(res.Source, string(res.Verdict.SafetyStatus)).Inc()

	event := domain.NewAssessmentEvent(domain.EventAssessmentCompleted, rec.Location, a.clock.Now())
	event.Source = res.Source
	event.Reason = res.Reason
	event.SafetyStatus = res.Verdict.SafetyStatus
	event.ConfidenceLevel = res.Verdict.ConfidenceLevel
	event.DurationMs = a.clock.Since(start).Milliseconds()
	a.sink.Publish(ctx, event)

	return res
}

func (a *Assessor) fromOracle(ctx context.Context, rec domain.WaterRecord) Result {
	start := a.clock.Now()
	raw, err := a.oracle.RequestNarrative(ctx, rec)
	elapsed := a.clock.Since(start)
	if !errors.Is(err, domain.ErrOracleDisabled) {
		a.metrics.OracleDuration.Observe(elapsed.Seconds())
	}

	if err == nil {
		verdict, parseErr := domain.ParseVerdict(raw)
		if parseErr == nil {
			return Result{Verdict: verdict, Source: domain.SourceOracle}
		}
		err = parseErr
	}

	reason := classify(err)
	a.metrics.OracleFailures.WithLabelValues(reason).Inc()
	if reason == domain.ReasonDisabled {
		a.logger.Debug("oracle disabled, using rule evaluator")
	} else {
		a.logger.Warn("oracle failed, using rule evaluator",
			"reason", reason,
			"error", err,
			"latitude", rec.Location.Latitude,
			"longitude", rec.Location.Longitude,
		)
	}

	event := domain.NewAssessmentEvent(domain.EventOracleFailed, rec.Location, a.clock.Now())
	event.Reason = reason
	event.Error = err.Error()
	event.DurationMs = elapsed.Milliseconds()
	a.sink.Publish(ctx, event)

	return Result{
		Verdict: domain.Evaluate(rec.Metrics, rec.Standards),
		Source:  domain.SourceFallback,
		Reason:  reason,
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrOracleDisabled):
		return domain.ReasonDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ReasonTimeout
	case errors.Is(err, domain.ErrNoJSONObject), errors.Is(err, domain.ErrInvalidVerdict):
		return domain.ReasonValidation
	default:
		return domain.ReasonUnavailable
	}
}
