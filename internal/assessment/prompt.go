package assessment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/osteele/liquid"
)

const promptSource = `
Analyze the safety of drinking water with the following metrics:

Water Quality Metrics:
{{ metrics }}

Safety Standards:
{{ standards }}

Location: {{ location }}
Last Tested: {{ last_tested }}
Source: {{ source }}

Please provide:
1. Overall safety assessment (safe, conditional, unsafe)
2. Detailed explanation of any issues
3. Recommendations for use
4. Confidence level in assessment

Format your response as a JSON object with the following structure:
{
  "safetyStatus": "safe|conditional|unsafe",
  "explanation": "detailed explanation",
  "issues": [list of specific issues],
  "recommendations": [list of recommendations],
  "confidenceLevel": "number between 0-100"
}
`

// promptRenderer holds the compiled oracle prompt.
type promptRenderer struct {
	tpl *liquid.Template
}

func newPromptRenderer() (*promptRenderer, error) {
	tpl, err := liquid.NewEngine().ParseString(promptSource)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &promptRenderer{tpl: tpl}, nil
}

func (p *promptRenderer) render(rec domain.WaterRecord) (string, error) {
	metrics, err := json.MarshalIndent(rec.Metrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}
	standards, err := json.MarshalIndent(rec.Standards, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode standards: %w", err)
	}

	out, renderErr := p.tpl.RenderString(liquid.Bindings{
		"metrics":     string(metrics),
		"standards":   string(standards),
		"location":    describeLocation(rec.Location),
		"last_tested": rec.LastTested,
		"source":      rec.Source,
	})
	if renderErr != nil {
		return "", fmt.Errorf("render prompt: %w", renderErr)
	}
	return out, nil
}

// describeLocation prefers the address and falls back to "<lat>, <lon>".
func describeLocation(loc domain.Location) string {
	if loc.Address != "" {
		return loc.Address
	}
	return strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
}
