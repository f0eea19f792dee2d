package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

func newReportCommand(a *app) *cobra.Command {
	var (
		region      string
		windowDays  int
		minSeverity string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Build the full aggregation report for one or every region",
		Long: `Report bundles the summary, disease distribution, severity trends,
high-priority outbreaks and temporal patterns for a region. Without --region a
report is produced for every region, keyed by region tag.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regions, err := regionsFlag(region)
			if err != nil {
				return err
			}
			opts := analysis.ReportOptions{}
			if cmd.Flags().Changed("window-days") {
				opts.WindowDays = analysis.Days(windowDays)
			}
			if minSeverity != "" {
				if opts.MinSeverity, err = domain.ParseSeverity(minSeverity); err != nil {
					return err
				}
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid --format %q: want json or yaml", format)
			}

			records, err := a.loadDataset(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			an := analysis.New(records, nil)

			var out any
			if len(regions) == 1 {
				out, err = an.BuildReport(cmd.Context(), regions[0], opts)
			} else {
				out, err = an.BuildReports(cmd.Context(), regions, opts)
			}
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region to report on: all, east_africa, uganda (default every region)")
	cmd.Flags().IntVar(&windowDays, "window-days", 0, "restrict windowed aggregations to the last n days")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "minimum severity for high-priority outbreaks (default High)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

// writeReport encodes v as indented JSON, or as YAML using the same field
// names as the JSON form.
func writeReport(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
