package domain

import "slices"

// Metric names understood by the standards table.
const (
	MetricLead     = "lead"
	MetricCopper   = "copper"
	MetricNitrate  = "nitrate"
	MetricBacteria = "bacteria"
	MetricPH       = "pH"
)

// EvaluationOrder is the order in which Evaluate checks metrics. Issues in a
// verdict follow this order.
var EvaluationOrder = []string{MetricLead, MetricCopper, MetricNitrate, MetricBacteria, MetricPH}

// Standard is the regulatory threshold for one metric. Min is nil for
// upper-bound-only standards.
type Standard struct {
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Unit string   `json:"unit" yaml:"unit"`
}

// IsRange reports whether the standard bounds the value on both sides.
func (s Standard) IsRange() bool {
	return s.Min != nil && s.Max != nil
}

func (s Standard) clone() Standard {
	out := Standard{Unit: s.Unit}
	if s.Min != nil {
		v := *s.Min
		out.Min = &v
	}
	if s.Max != nil {
		v := *s.Max
		out.Max = &v
	}
	return out
}

// Standards maps metric names to their thresholds.
type Standards map[string]Standard

// Clone returns a deep copy, including the bound pointers.
func (s Standards) Clone() Standards {
	if s == nil {
		return nil
	}
	out := make(Standards, len(s))
	for name, std := range s {
		out[name] = std.clone()
	}
	return out
}

// Names returns the metrics in EvaluationOrder that have a standard, followed
// by any other standard names in lexical order.
func (s Standards) Names() []string {
	names := make([]string, 0, len(s))
	for _, name := range EvaluationOrder {
		if _, ok := s[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range s {
		if !slices.Contains(EvaluationOrder, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

func bound(v float64) *float64 { return &v }

var defaultStandards = Standards{
	MetricLead:     {Max: bound(0.015), Unit: "mg/L"},
	MetricCopper:   {Max: bound(1.3), Unit: "mg/L"},
	MetricNitrate:  {Max: bound(10), Unit: "mg/L"},
	MetricBacteria: {Max: bound(0), Unit: "cfu/100mL"},
	MetricPH:       {Min: bound(6.5), Max: bound(8.5), Unit: "pH"},
}

// DefaultStandards returns a copy of the drinking-water standards table.
// Callers may modify the result freely.
func DefaultStandards() Standards {
	return defaultStandards.Clone()
}
