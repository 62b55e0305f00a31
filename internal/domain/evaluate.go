package domain

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackConfidence is the confidence reported by rule-based verdicts.
const FallbackConfidence = 80

var (
	unsafeRecommendations = []string{
		"Do not consume this water.",
		"Consider using bottled water for drinking and cooking.",
		"Contact your local water authority for assistance.",
	}
	conditionalRecommendations = []string{
		"Water may be used for showering but not for drinking.",
		"Consider using a water filter certified for the detected issues.",
	}
	safeRecommendations = []string{
		"Water is safe for all household uses.",
	}

	metricLabels = map[string]string{
		MetricLead:     "Lead",
		MetricCopper:   "Copper",
		MetricNitrate:  "Nitrate",
		MetricBacteria: "Bacteria",
		MetricPH:       "pH",
	}
)

type violationKind int

const (
	exceedsMaximum violationKind = iota
	outsideRange
)

type violation struct {
	kind violationKind
	text string
}

// Evaluate classifies metrics against standards. It never fails: metrics
// without a standard and standards without a measured value are skipped.
func Evaluate(metrics map[string]float64, standards Standards) Verdict {
	var violations []violation
	for _, name := range standards.Names() {
		value, ok := metrics[name]
		if !ok {
			continue
		}
		if v, violated := check(name, value, standards[name]); violated {
			violations = append(violations, v)
		}
	}

	issues := make([]string, 0, len(violations))
	status := StatusSafe
	for _, v := range violations {
		issues = append(issues, v.text)
		switch {
		case v.kind == exceedsMaximum:
			status = StatusUnsafe
		case status == StatusSafe:
			status = StatusConditional
		}
	}

	explanation := "All water quality metrics are within safe ranges."
	if len(issues) > 0 {
		explanation = "Water quality issues detected: " + strings.Join(issues, " ")
	}

	return Verdict{
		SafetyStatus:    status,
		Explanation:     explanation,
		Issues:          issues,
		Recommendations: recommendationsFor(status),
		ConfidenceLevel: FallbackConfidence,
	}
}

func check(name string, value float64, std Standard) (violation, bool) {
	label := metricLabel(name)
	switch {
	case std.Min != nil && value < *std.Min, std.IsRange() && value > *std.Max:
		return violation{
			kind: outsideRange,
			text: label + " level (" + formatValue(value) + ") is outside the safe range.",
		}, true
	case !std.IsRange() && std.Max != nil && value > *std.Max:
		return violation{
			kind: exceedsMaximum,
			text: label + " level (" + formatValue(value) + " " + std.Unit + ") exceeds maximum safe level.",
		}, true
	}
	return violation{}, false
}

func metricLabel(name string) string {
	if label, ok := metricLabels[name]; ok {
		return label
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// formatValue prints the shortest decimal that round-trips, e.g. 0.02 or 9.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func recommendationsFor(status SafetyStatus) []string {
	switch status {
	case StatusUnsafe:
		return slices.Clone(unsafeRecommendations)
	case StatusConditional:
		return slices.Clone(conditionalRecommendations)
	default:
		return slices.Clone(safeRecommendations)
	}
}
