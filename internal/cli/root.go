package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/water-safety-service/internal/app"
	"github.com/couchcryptid/water-safety-service/internal/assessment"
	"github.com/couchcryptid/water-safety-service/internal/config"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// Assessor reports a verdict together with its source.
type Assessor interface {
	AssessDetailed(ctx context.Context, rec domain.WaterRecord) assessment.Result
}

// Env is what the assess and batch commands run against.
type Env struct {
	Provider domain.WaterDataProvider
	Assessor Assessor
	Close    func() error
}

// EnvBuilder creates an Env. verbose lowers the log level to debug.
type EnvBuilder func(ctx context.Context, stderr io.Writer, verbose bool) (*Env, error)

// SetBuildInfo records ldflags build metadata for the version command.
func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

// NewRootCmd assembles the watercheck command tree.
func NewRootCmd(build EnvBuilder) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "watercheck",
		Short: "Assess drinking-water safety from the command line",
		Long: `watercheck assesses drinking-water safety for a location using the same
provider, narrative oracle, and rule evaluator as the water safety service.

Configuration is read from the service's environment variables
(ORACLE_PROVIDER, PROVIDER_FIXTURES, REDIS_ADDR, ...).

Examples:
	# Assess one location
	watercheck assess --lat 40.7128 --lon -74.006

	# Assess every location in a file, four at a time
	watercheck batch --file locations.yaml --concurrency 4

	# Print the regulatory thresholds
	watercheck standards`,
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate),
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log oracle failures and cache activity to stderr")

	open := func(cmd *cobra.Command) (*Env, error) {
		return build(cmd.Context(), cmd.ErrOrStderr(), verbose)
	}

	root.AddCommand(
		newAssessCmd(open),
		newBatchCmd(open),
		newStandardsCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs watercheck with the environment-backed builder.
func Execute() {
	if err := NewRootCmd(DefaultEnv).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// DefaultEnv loads the service configuration and wires the real components.
func DefaultEnv(ctx context.Context, stderr io.Writer, verbose bool) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLoggerTo(stderr, level, cfg)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	c, err := app.Build(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	return &Env{Provider: c.Provider, Assessor: c.Assessor, Close: c.Close}, nil
}
