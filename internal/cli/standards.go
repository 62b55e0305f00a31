package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/spf13/cobra"
)

func newStandardsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "standards",
		Short: "Print the regulatory thresholds used for assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			standards := domain.DefaultStandards()
			if asJSON {
				return writeIndentedJSON(cmd.OutOrStdout(), standards)
			}
			return printStandards(cmd.OutOrStdout(), standards)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	return cmd
}

func printStandards(w io.Writer, standards domain.Standards) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tMIN\tMAX\tUNIT")
	for _, name := range standards.Names() {
		s := standards[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, formatBound(s.Min), formatBound(s.Max), s.Unit)
	}
	return tw.Flush()
}

func formatBound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
