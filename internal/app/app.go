// Package app wires configuration into the assessment components shared by
// the HTTP service and the watercheck CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-safety-service/internal/adapter/bedrock"
	kafkaadapter "github.com/couchcryptid/water-safety-service/internal/adapter/kafka"
	"github.com/couchcryptid/water-safety-service/internal/adapter/narrativecache"
	"github.com/couchcryptid/water-safety-service/internal/adapter/openai"
	"github.com/couchcryptid/water-safety-service/internal/adapter/provider"
	"github.com/couchcryptid/water-safety-service/internal/assessment"
	"github.com/couchcryptid/water-safety-service/internal/config"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	"github.com/redis/go-redis/v9"
)

// Components are the wired collaborators of an assessment run.
type Components struct {
	Provider *provider.Fixtures
	Assessor *assessment.Assessor
	Ready    sharedobs.ReadinessChecker

	closers []func() error
}

// Build creates the provider, narrative generator, event sink, and assessor
// described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Components, error) {
	c := &Components{}
	checks := readinessChecks{}

	fixtures, err := provider.LoadFixtures(cfg.ProviderFixtures)
	if err != nil {
		return nil, err
	}
	c.Provider = fixtures
	checks = append(checks, fixtures)
	logger.Info("water data provider ready", "stations", fixtures.Len())

	generator, err := c.buildGenerator(ctx, cfg, logger, metrics)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	oracle, err := assessment.NewOracle(generator, cfg.OracleTimeout)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var sink domain.EventSink
	if cfg.EventsEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger, metrics)
		c.closers = append(c.closers, publisher.Close)
		sink = publisher
		logger.Info("assessment events enabled", "topic", cfg.KafkaEventsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		sink = observability.NewLogSink(logger)
	}

	c.Assessor = assessment.New(oracle, domain.DefaultStandards(), sink, logger, metrics)
	c.Ready = checks
	return c, nil
}

func (c *Components) buildGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (domain.NarrativeGenerator, error) {
	var inner domain.NarrativeGenerator
	switch cfg.OracleProvider {
	case config.OracleBedrock:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.OracleModel, logger)
		if err != nil {
			return nil, err
		}
		inner = client
	case config.OracleOpenAI:
		inner = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OracleModel, cfg.OracleTimeout, logger)
	default:
		metrics.OracleEnabled.Set(0)
		logger.Info("narrative oracle disabled, using rule evaluator only")
		return nil, nil
	}
	metrics.OracleEnabled.Set(1)

	var store narrativecache.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.closers = append(c.closers, client.Close)
		redisStore := narrativecache.NewRedisStore(client, cfg.NarrativeCacheTTL)
		if err := redisStore.Ping(ctx); err != nil {
			logger.Warn("narrative cache unreachable, narratives will miss until it recovers",
				"addr", cfg.RedisAddr,
				"error", err,
			)
		}
		store = redisStore
	} else {
		mem, err := narrativecache.NewMemoryStore(cfg.NarrativeCacheSize, cfg.NarrativeCacheTTL)
		if err != nil {
			return nil, err
		}
		store = mem
	}

	logger.Info("narrative oracle enabled",
		"provider", cfg.OracleProvider,
		"timeout", cfg.OracleTimeout,
		"redis_cache", cfg.RedisAddr != "",
	)
	return narrativecache.NewCachedGenerator(inner, store, logger, metrics), nil
}

// Close releases the event publisher and cache connections.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// readinessChecks is ready when every check passes.
type readinessChecks []sharedobs.ReadinessChecker

func (r readinessChecks) CheckReadiness(ctx context.Context) error {
	for _, check := range r {
		if err := check.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("not ready: %w", err)
		}
	}
	return nil
}
