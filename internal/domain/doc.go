// Package domain models drinking-water quality data and the safety verdicts
// derived from it.
//
// # Standards
//
// Regulatory thresholds follow the US EPA drinking-water limits used by the
// service since its first release:
//
//	lead      max 0.015 mg/L      (action level)
//	copper    max 1.3 mg/L        (action level)
//	nitrate   max 10 mg/L         (as nitrogen)
//	bacteria  max 0 cfu/100mL     (total coliform)
//	pH        6.5 to 8.5          (secondary standard)
//
// A standard with only a maximum is an upper bound; one with both bounds is a
// range. The canonical table is never handed out directly: [DefaultStandards]
// returns a deep copy.
//
// # Verdicts
//
// A [Verdict] comes from one of two places. The preferred source is a
// narrative generator (an LLM) whose free-text answer must contain a JSON
// object in the verdict shape; [ParseVerdict] extracts and decodes it. When
// the generator is unavailable or its answer does not decode, [Evaluate]
// produces a deterministic verdict with a fixed confidence of 80.
//
// Evaluate checks metrics in [EvaluationOrder]. Upper-bound violations are
// "exceedances" and make the water unsafe; range violations alone (pH today)
// only make it conditional. This keeps the classification of the first
// release, where a pH-only problem was never reported as unsafe.
//
// Missing metrics are skipped, not treated as violations.
package domain
