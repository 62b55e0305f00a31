package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/water-safety-service/internal/domain"
)

// DefaultOracleTimeout bounds a narrative request when no timeout is configured.
const DefaultOracleTimeout = 10 * time.Second

// Oracle builds the assessment prompt for a record and asks the narrative
// generator to answer it.
type Oracle struct {
	generator domain.NarrativeGenerator
	prompt    *promptRenderer
	timeout   time.Duration
}

// NewOracle creates an Oracle. A nil generator yields an Oracle that always
// reports domain.ErrOracleDisabled.
func NewOracle(generator domain.NarrativeGenerator, timeout time.Duration) (*Oracle, error) {
	prompt, err := newPromptRenderer()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &Oracle{generator: generator, prompt: prompt, timeout: timeout}, nil
}

// Prompt renders the text sent to the generator for rec.
func (o *Oracle) Prompt(rec domain.WaterRecord) (string, error) {
	return o.prompt.render(rec)
}

type generateResult struct {
	text string
	err  error
}

// RequestNarrative returns the generator's raw answer for rec. The call
// returns within the oracle timeout even when the generator ignores its
// context; timeouts wrap context.DeadlineExceeded.
func (o *Oracle) RequestNarrative(ctx context.Context, rec domain.WaterRecord) (string, error) {
	if o.generator == nil {
		return "", domain.ErrOracleDisabled
	}

	prompt, err := o.prompt.render(rec)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan generateResult, 1)
	go func() {
		text, err := o.generator.Generate(ctx, prompt)
		done <- generateResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("generate narrative: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			if ctx.Err() != nil && !errors.Is(res.err, ctx.Err()) {
				return "", fmt.Errorf("generate narrative: %w: %v", ctx.Err(), res.err)
			}
			return "", fmt.Errorf("generate narrative: %w", res.err)
		}
		if strings.TrimSpace(res.text) == "" {
			return "", domain.ErrEmptyNarrative
		}
		return res.text, nil
	}
}
