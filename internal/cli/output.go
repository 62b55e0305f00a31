package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/water-safety-service/internal/assessment"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/fatih/color"
)

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusColor(s domain.SafetyStatus) *color.Color {
	switch s {
	case domain.StatusSafe:
		return color.New(color.FgGreen, color.Bold)
	case domain.StatusConditional:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func describeSource(res assessment.Result) string {
	if res.Source == domain.SourceFallback && res.Reason != "" {
		return fmt.Sprintf("%s (%s)", res.Source, res.Reason)
	}
	return res.Source
}

func printAssessment(w io.Writer, rec domain.WaterRecord, res assessment.Result) {
	bold := color.New(color.Bold)
	v := res.Verdict

	fmt.Fprintf(w, "Location:    %s\n", locationLabel(rec.Location))
	fmt.Fprintf(w, "Data source: %s (last tested %s)\n", rec.Source, rec.LastTested)
	fmt.Fprint(w, "Status:      ")
	statusColor(v.SafetyStatus).Fprintln(w, strings.ToUpper(string(v.SafetyStatus)))
	fmt.Fprintf(w, "Confidence:  %d\n", v.ConfidenceLevel)
	fmt.Fprintf(w, "Verdict by:  %s\n", describeSource(res))
	fmt.Fprintln(w)
	fmt.Fprintln(w, v.Explanation)

	if len(v.Issues) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Issues:")
		for _, issue := range v.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	if len(v.Recommendations) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Recommendations:")
		for _, r := range v.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func printBatch(w io.Writer, results []batchResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tSTATUS\tCONFIDENCE\tISSUES\tSOURCE")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR\t-\t-\t%s\n", locationLabel(r.Location), r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			locationLabel(r.Location),
			strings.ToUpper(string(r.Verdict.SafetyStatus)),
			r.Verdict.ConfidenceLevel,
			len(r.Verdict.Issues),
			r.Source,
		)
	}
	tw.Flush() //nolint:errcheck // writer errors surface on the terminal
}

func locationLabel(loc domain.Location) string {
	coords := strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
	if loc.Address != "" {
		return loc.Address + " (" + coords + ")"
	}
	return coords
}
