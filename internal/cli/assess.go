package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

func newAssessCmd(open func(*cobra.Command) (*Env, error)) *cobra.Command {
	var (
		lat, lon float64
		address  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess water safety at one location",
		Long: `Fetch the water record for a location and assess it.

Examples:
  watercheck assess --lat 40.7128 --lon -74.006
  watercheck assess --lat 40.7128 --lon -74.006 --address "City Hall" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return errors.New("--lat and --lon are required")
			}
			if err := validateCoordinates(lat, lon); err != nil {
				return err
			}

			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck // nothing left to report on exit

			ctx := cmd.Context()
			rec, err := env.Provider.FetchWaterQualityData(ctx, lat, lon, address)
			if err != nil {
				return fmt.Errorf("fetch water quality data: %w", err)
			}
			res := env.Assessor.AssessDetailed(ctx, rec)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeIndentedJSON(out, res.Verdict)
			}
			printAssessment(out, rec, res)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in decimal degrees")
	cmd.Flags().StringVar(&address, "address", "", "Optional street address")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the verdict as JSON")
	return cmd
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return nil
}
