package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoJSONObject means the narrative contained no {...} block.
	ErrNoJSONObject = errors.New("no JSON object in narrative")
	// ErrInvalidVerdict means the JSON block did not decode into a complete verdict.
	ErrInvalidVerdict = errors.New("invalid verdict")
)

// verdictDocument mirrors Verdict with pointer fields so missing keys and
// nulls can be told apart from zero values.
type verdictDocument struct {
	SafetyStatus    *SafetyStatus `json:"safetyStatus"`
	Explanation     *string       `json:"explanation"`
	Issues          *[]string     `json:"issues"`
	Recommendations *[]string     `json:"recommendations"`
	ConfidenceLevel *confidence   `json:"confidenceLevel"`
}

// confidence accepts an integer or a string holding one. Models asked for a
// "number between 0-100" frequently quote it.
type confidence int

func (c *confidence) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("confidenceLevel %q is not an integer", s)
		}
		*c = confidence(n)
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("confidenceLevel %s is not an integer", text)
	}
	*c = confidence(int(f))
	return nil
}

// ExtractJSONObject returns the text from the first '{' to the last '}'.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(raw, '}')
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseVerdict extracts the JSON object embedded in a narrative and decodes
// it into a Verdict. Every field is required; values are not range-checked.
func ParseVerdict(raw string) (Verdict, error) {
	block, ok := ExtractJSONObject(raw)
	if !ok {
		return Verdict{}, ErrNoJSONObject
	}

	var doc verdictDocument
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrInvalidVerdict, err)
	}

	var missing []string
	if doc.SafetyStatus == nil {
		missing = append(missing, "safetyStatus")
	}
	if doc.Explanation == nil {
		missing = append(missing, "explanation")
	}
	if doc.Issues == nil {
		missing = append(missing, "issues")
	}
	if doc.Recommendations == nil {
		missing = append(missing, "recommendations")
	}
	if doc.ConfidenceLevel == nil {
		missing = append(missing, "confidenceLevel")
	}
	if len(missing) > 0 {
		return Verdict{}, fmt.Errorf("%w: missing %s", ErrInvalidVerdict, strings.Join(missing, ", "))
	}

	issues := *doc.Issues
	if issues == nil {
		issues = []string{}
	}
	recommendations := *doc.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return Verdict{
		SafetyStatus:    *doc.SafetyStatus,
		Explanation:     *doc.Explanation,
		Issues:          issues,
		Recommendations: recommendations,
		ConfidenceLevel: int(*doc.ConfidenceLevel),
	}, nil
}
