package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leadIssue = "Lead level (0.02 mg/L) exceeds maximum safe level."
	pHIssue   = "pH level (9) is outside the safe range."
)

func safeMetrics() map[string]float64 {
	return map[string]float64{
		MetricLead:     0.005,
		MetricCopper:   0.8,
		MetricNitrate:  2.1,
		MetricBacteria: 0,
		MetricPH:       7.2,
	}
}

func TestEvaluate_AllWithinStandards(t *testing.T) {
	v := Evaluate(safeMetrics(), DefaultStandards())

	assert.Equal(t, StatusSafe, v.SafetyStatus)
	assert.Empty(t, v.Issues)
	assert.NotNil(t, v.Issues)
	assert.Equal(t, "All water quality metrics are within safe ranges.", v.Explanation)
	assert.Equal(t, []string{"Water is safe for all household uses."}, v.Recommendations)
	assert.Equal(t, 80, v.ConfidenceLevel)
}

func TestEvaluate_LeadExceeds(t *testing.T) {
	m := safeMetrics()
	m[MetricLead] = 0.02

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusUnsafe, v.SafetyStatus)
	assert.Equal(t, []string{leadIssue}, v.Issues)
	assert.Equal(t, "Water quality issues detected: "+leadIssue, v.Explanation)
	assert.Equal(t, []string{
		"Do not consume this water.",
		"Consider using bottled water for drinking and cooking.",
		"Contact your local water authority for assistance.",
	}, v.Recommendations)
	assert.Equal(t, 80, v.ConfidenceLevel)
}

func TestEvaluate_PHOnlyIsConditional(t *testing.T) {
	m := safeMetrics()
	m[MetricPH] = 9.0

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusConditional, v.SafetyStatus)
	assert.Equal(t, []string{pHIssue}, v.Issues)
	assert.Equal(t, []string{
		"Water may be used for showering but not for drinking.",
		"Consider using a water filter certified for the detected issues.",
	}, v.Recommendations)
}

func TestEvaluate_PHBelowMinimum(t *testing.T) {
	m := safeMetrics()
	m[MetricPH] = 6.1

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusConditional, v.SafetyStatus)
	assert.Equal(t, []string{"pH level (6.1) is outside the safe range."}, v.Issues)
}

func TestEvaluate_ExceedsTakesPriorityOverRange(t *testing.T) {
	m := safeMetrics()
	m[MetricLead] = 0.02
	m[MetricPH] = 9.0

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusUnsafe, v.SafetyStatus)
	assert.Equal(t, []string{leadIssue, pHIssue}, v.Issues)
	assert.Equal(t, "Water quality issues detected: "+leadIssue+" "+pHIssue, v.Explanation)
}

func TestEvaluate_IssueOrderFollowsEvaluationOrder(t *testing.T) {
	m := map[string]float64{
		MetricPH:       5,
		MetricBacteria: 3,
		MetricNitrate:  12.5,
		MetricCopper:   2,
		MetricLead:     1,
	}

	v := Evaluate(m, DefaultStandards())

	require.Len(t, v.Issues, 5)
	assert.Equal(t, "Lead level (1 mg/L) exceeds maximum safe level.", v.Issues[0])
	assert.Equal(t, "Copper level (2 mg/L) exceeds maximum safe level.", v.Issues[1])
	assert.Equal(t, "Nitrate level (12.5 mg/L) exceeds maximum safe level.", v.Issues[2])
	assert.Equal(t, "Bacteria level (3 cfu/100mL) exceeds maximum safe level.", v.Issues[3])
	assert.Equal(t, "pH level (5) is outside the safe range.", v.Issues[4])
}

func TestEvaluate_BoundaryValuesAreSafe(t *testing.T) {
	m := map[string]float64{
		MetricLead:     0.015,
		MetricCopper:   1.3,
		MetricNitrate:  10,
		MetricBacteria: 0,
		MetricPH:       8.5,
	}

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusSafe, v.SafetyStatus)
}

func TestEvaluate_MissingMetricsAreSkipped(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]float64
	}{
		{"nil metrics", nil},
		{"empty metrics", map[string]float64{}},
		{"only copper", map[string]float64{MetricCopper: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.metrics, DefaultStandards())
			assert.Equal(t, StatusSafe, v.SafetyStatus)
			assert.Empty(t, v.Issues)
		})
	}
}

func TestEvaluate_UnknownMetricIgnored(t *testing.T) {
	m := safeMetrics()
	m["arsenic"] = 99

	v := Evaluate(m, DefaultStandards())

	assert.Equal(t, StatusSafe, v.SafetyStatus)
}

func TestEvaluate_MissingStandardSkipsCheck(t *testing.T) {
	standards := DefaultStandards()
	delete(standards, MetricLead)
	m := safeMetrics()
	m[MetricLead] = 5

	v := Evaluate(m, standards)

	assert.Equal(t, StatusSafe, v.SafetyStatus)
}

func TestEvaluate_ExtraStandardEvaluatedAfterKnownMetrics(t *testing.T) {
	standards := DefaultStandards()
	standards["arsenic"] = Standard{Max: bound(0.01), Unit: "mg/L"}
	m := safeMetrics()
	m["arsenic"] = 0.05
	m[MetricPH] = 9

	v := Evaluate(m, standards)

	assert.Equal(t, StatusUnsafe, v.SafetyStatus)
	assert.Equal(t, []string{
		pHIssue,
		"Arsenic level (0.05 mg/L) exceeds maximum safe level.",
	}, v.Issues)
}

func TestEvaluate_Idempotent(t *testing.T) {
	m := safeMetrics()
	m[MetricLead] = 0.02
	m[MetricPH] = 9.0
	standards := DefaultStandards()

	first := Evaluate(m, standards)
	second := Evaluate(m, standards)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("verdicts differ (-first +second):\n%s", diff)
	}

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestEvaluate_SafeVerdictMarshalsEmptyIssues(t *testing.T) {
	b, err := json.Marshal(Evaluate(safeMetrics(), DefaultStandards()))
	require.NoError(t, err)

	assert.Contains(t, string(b), `"issues":[]`)
	assert.Contains(t, string(b), `"safetyStatus":"safe"`)
	assert.Contains(t, string(b), `"confidenceLevel":80`)
}

func TestEvaluate_RecommendationsNotShared(t *testing.T) {
	v := Evaluate(safeMetrics(), DefaultStandards())
	v.Recommendations[0] = "tampered"

	again := Evaluate(safeMetrics(), DefaultStandards())
	assert.Equal(t, "Water is safe for all household uses.", again.Recommendations[0])
}

func TestMetricLabel(t *testing.T) {
	assert.Equal(t, "Lead", metricLabel(MetricLead))
	assert.Equal(t, "pH", metricLabel(MetricPH))
	assert.Equal(t, "Arsenic", metricLabel("arsenic"))
	assert.Equal(t, "", metricLabel(""))
}
