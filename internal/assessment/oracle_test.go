package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func testRecord() domain.WaterRecord {
	return domain.WaterRecord{
		Location: domain.Location{Latitude: 40.7128, Longitude: -74.006},
		Metrics: map[string]float64{
			domain.MetricLead:     0.005,
			domain.MetricCopper:   0.8,
			domain.MetricNitrate:  2.1,
			domain.MetricBacteria: 0,
			domain.MetricPH:       7.2,
		},
		LastTested: "2024-01-15",
		Source:     "Municipal Water Supply",
		Standards:  domain.DefaultStandards(),
	}
}

func TestOracle_Prompt(t *testing.T) {
	o, err := NewOracle(nil, time.Second)
	require.NoError(t, err)

	prompt, err := o.Prompt(testRecord())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Water Quality Metrics:\n{\n  \"bacteria\": 0,\n  \"copper\": 0.8,")
	assert.Contains(t, prompt, "\"lead\": {\n    \"max\": 0.015,\n    \"unit\": \"mg/L\"\n  }")
	assert.Contains(t, prompt, "Location: 40.7128, -74.006")
	assert.Contains(t, prompt, "Last Tested: 2024-01-15")
	assert.Contains(t, prompt, "Source: Municipal Water Supply")
	assert.Contains(t, prompt, `"safetyStatus": "safe|conditional|unsafe"`)
}

func TestOracle_PromptPrefersAddress(t *testing.T) {
	o, err := NewOracle(nil, time.Second)
	require.NoError(t, err)

	rec := testRecord()
	rec.Location.Address = "1 Main St, Springfield"
	prompt, err := o.Prompt(rec)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Location: 1 Main St, Springfield")
	assert.NotContains(t, prompt, "40.7128, -74.006")
}

func TestOracle_Disabled(t *testing.T) {
	o, err := NewOracle(nil, time.Second)
	require.NoError(t, err)

	_, err = o.RequestNarrative(context.Background(), testRecord())
	assert.ErrorIs(t, err, domain.ErrOracleDisabled)
}

func TestOracle_ReturnsGeneratorText(t *testing.T) {
	var got string
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		got = prompt
		return "narrative", nil
	})
	o, err := NewOracle(gen, time.Second)
	require.NoError(t, err)

	text, err := o.RequestNarrative(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, "narrative", text)
	assert.Contains(t, got, "Analyze the safety of drinking water")
}

func TestOracle_GeneratorError(t *testing.T) {
	boom := errors.New("service unavailable")
	gen := generatorFunc(func(context.Context, string) (string, error) { return "", boom })
	o, err := NewOracle(gen, time.Second)
	require.NoError(t, err)

	_, err = o.RequestNarrative(context.Background(), testRecord())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestOracle_EmptyNarrative(t *testing.T) {
	gen := generatorFunc(func(context.Context, string) (string, error) { return "  \n", nil })
	o, err := NewOracle(gen, time.Second)
	require.NoError(t, err)

	_, err = o.RequestNarrative(context.Background(), testRecord())
	assert.ErrorIs(t, err, domain.ErrEmptyNarrative)
}

func TestOracle_TimeoutWhenGeneratorIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	gen := generatorFunc(func(context.Context, string) (string, error) {
		<-release
		return "too late", nil
	})
	o, err := NewOracle(gen, 20*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	_, err = o.RequestNarrative(context.Background(), testRecord())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOracle_TimeoutReportedByGenerator(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", errors.New("request canceled")
	})
	o, err := NewOracle(gen, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = o.RequestNarrative(context.Background(), testRecord())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewOracle_DefaultTimeout(t *testing.T) {
	o, err := NewOracle(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultOracleTimeout, o.timeout)
}
