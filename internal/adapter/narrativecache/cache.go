package narrativecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
)

// Store is a key/value backend for cached narratives.
type Store interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CachedGenerator wraps a NarrativeGenerator with a narrative cache keyed by
// the prompt's SHA-256.
type CachedGenerator struct {
	inner   domain.NarrativeGenerator
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCachedGenerator creates a cache decorator around a generator.
func NewCachedGenerator(inner domain.NarrativeGenerator, store Store, logger *slog.Logger, metrics *observability.Metrics) *CachedGenerator {
	return &CachedGenerator{inner: inner, store: store, logger: logger, metrics: metrics}
}

// Generate returns a cached narrative for prompt or asks the inner generator.
// Cache failures are treated as misses.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	text, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.NarrativeCache.WithLabelValues("error").Inc()
		c.logger.Warn("narrative cache read failed", "error", err)
	case ok:
		c.metrics.NarrativeCache.WithLabelValues("hit").Inc()
		return text, nil
	default:
		c.metrics.NarrativeCache.WithLabelValues("miss").Inc()
	}

	text, err = c.inner.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	// Only cache answers that validate so a bad narrative is retried next time.
	if _, parseErr := domain.ParseVerdict(text); parseErr != nil {
		return text, nil
	}
	if err := c.store.Set(ctx, key, text); err != nil {
		c.metrics.NarrativeCache.WithLabelValues("error").Inc()
		c.logger.Warn("narrative cache write failed", "error", err)
	}
	return text, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
