package domain

import (
	"encoding/json"
	"fmt"
)

// SafetyStatus is the overall classification of a water sample.
type SafetyStatus string

const (
	StatusSafe        SafetyStatus = "safe"
	StatusConditional SafetyStatus = "conditional"
	StatusUnsafe      SafetyStatus = "unsafe"
)

// Valid reports whether s is one of the known statuses.
func (s SafetyStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusConditional, StatusUnsafe:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects statuses outside the enum.
func (s *SafetyStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !SafetyStatus(raw).Valid() {
		return fmt.Errorf("unknown safety status %q", raw)
	}
	*s = SafetyStatus(raw)
	return nil
}

// Verdict is the safety assessment returned to callers.
type Verdict struct {
	SafetyStatus    SafetyStatus `json:"safetyStatus"`
	Explanation     string       `json:"explanation"`
	Issues          []string     `json:"issues"`
	Recommendations []string     `json:"recommendations"`
	ConfidenceLevel int          `json:"confidenceLevel"`
}
