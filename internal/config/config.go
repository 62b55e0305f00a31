package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Oracle providers.
const (
	OracleNone    = "none"
	OracleBedrock = "bedrock"
	OracleOpenAI  = "openai"
)

// MaxOracleTimeout caps ORACLE_TIMEOUT. The HTTP write deadline is derived
// from the oracle timeout, so it must stay bounded.
const MaxOracleTimeout = 2 * time.Minute

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Narrative oracle configuration.
	OracleProvider string
	OracleModel    string
	OracleTimeout  time.Duration
	AWSRegion      string
	OpenAIAPIKey   string
	OpenAIBaseURL  string

	// Narrative cache configuration. RedisAddr selects the Redis backend.
	NarrativeCacheSize int
	NarrativeCacheTTL  time.Duration
	RedisAddr          string

	// Assessment event publishing.
	EventsEnabled    bool
	KafkaBrokers     []string
	KafkaEventsTopic string

	ProviderFixtures string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	oracleTimeout, err := parsePositiveDuration("ORACLE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if oracleTimeout > MaxOracleTimeout {
		return nil, fmt.Errorf("ORACLE_TIMEOUT %s exceeds maximum %s", oracleTimeout, MaxOracleTimeout)
	}

	cacheTTL, err := parsePositiveDuration("NARRATIVE_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		OracleProvider: strings.ToLower(sharedcfg.EnvOrDefault("ORACLE_PROVIDER", OracleNone)),
		OracleModel:    os.Getenv("ORACLE_MODEL"),
		OracleTimeout:  oracleTimeout,
		AWSRegion:      sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),

		NarrativeCacheSize: parseNarrativeCacheSize(),
		NarrativeCacheTTL:  cacheTTL,
		RedisAddr:          os.Getenv("REDIS_ADDR"),

		EventsEnabled:    os.Getenv("EVENTS_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaEventsTopic: sharedcfg.EnvOrDefault("KAFKA_EVENTS_TOPIC", "water-safety-assessments"),

		ProviderFixtures: os.Getenv("PROVIDER_FIXTURES"),
	}

	switch cfg.OracleProvider {
	case OracleNone, OracleBedrock:
	case OracleOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("ORACLE_PROVIDER is openai but OPENAI_API_KEY is not set")
		}
	default:
		return nil, fmt.Errorf("invalid ORACLE_PROVIDER %q", cfg.OracleProvider)
	}
	if cfg.EventsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when EVENTS_ENABLED is true")
		}
		if cfg.KafkaEventsTopic == "" {
			return nil, errors.New("KAFKA_EVENTS_TOPIC is required when EVENTS_ENABLED is true")
		}
	}

	return cfg, nil
}

// OracleEnabled reports whether a narrative generator should be wired.
func (c *Config) OracleEnabled() bool {
	return c.OracleProvider != OracleNone
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNarrativeCacheSize() int {
	if s := os.Getenv("NARRATIVE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
