package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type batchFile struct {
	Locations []domain.Location `yaml:"locations"`
}

// batchResult is one row of a batch run.
type batchResult struct {
	Location domain.Location `json:"location"`
	Verdict  *domain.Verdict `json:"verdict,omitempty"`
	Source   string          `json:"source,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func newBatchCmd(open func(*cobra.Command) (*Env, error)) *cobra.Command {
	var (
		file        string
		concurrency int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Assess every location listed in a YAML file",
		Long: `Assess many locations concurrently.

The file lists locations under a "locations" key:

  locations:
    - latitude: 40.7128
      longitude: -74.006
      address: City Hall

Examples:
  watercheck batch --file locations.yaml
  watercheck batch --file locations.yaml --concurrency 8 --json

The command exits non-zero when any location could not be assessed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}
			locations, err := loadBatchFile(file)
			if err != nil {
				return err
			}

			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck // nothing left to report on exit

			results, err := runBatch(cmd.Context(), env, locations, concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeIndentedJSON(out, results); err != nil {
					return err
				}
			} else {
				printBatch(out, results)
			}

			if failed := countFailed(results); failed > 0 {
				return fmt.Errorf("%d of %d locations could not be assessed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file of locations")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Maximum assessments in flight")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func loadBatchFile(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	if len(f.Locations) == 0 {
		return nil, fmt.Errorf("batch file %s lists no locations", path)
	}
	for i, loc := range f.Locations {
		if err := validateCoordinates(loc.Latitude, loc.Longitude); err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
	}
	return f.Locations, nil
}

// runBatch assesses locations with at most concurrency in flight. Results keep
// the input order. Provider failures are recorded per location; only context
// cancellation aborts the run.
func runBatch(ctx context.Context, env *Env, locations []domain.Location, concurrency int) ([]batchResult, error) {
	results := make([]batchResult, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, loc := range locations {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = assessOne(ctx, env, loc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func assessOne(ctx context.Context, env *Env, loc domain.Location) batchResult {
	res := batchResult{Location: loc}
	rec, err := env.Provider.FetchWaterQualityData(ctx, loc.Latitude, loc.Longitude, loc.Address)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	out := env.Assessor.AssessDetailed(ctx, rec)
	res.Verdict = &out.Verdict
	res.Source = out.Source
	return res
}

func countFailed(results []batchResult) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}
