package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

func newSummaryCommand(a *app) *cobra.Command {
	var (
		region   string
		diseases bool
	)

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print summary statistics per region as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regions, err := regionsFlag(region)
			if err != nil {
				return err
			}

			records, err := a.loadDataset(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			an := analysis.New(records, nil)

			summaries := make([]analysis.Summary, 0, len(regions))
			for _, tag := range regions {
				s, err := an.SummaryStatistics(tag)
				if err != nil {
					return err
				}
				summaries = append(summaries, s)
			}
			out := cmd.OutOrStdout()
			renderSummaries(out, summaries)

			if !diseases {
				return nil
			}
			for _, tag := range regions {
				stats, err := an.DiseaseDistribution(tag)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", tag)
				renderDiseases(out, stats)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region to summarize: all, east_africa, uganda (default every region)")
	cmd.Flags().BoolVar(&diseases, "diseases", false, "also print the disease distribution per region")
	return cmd
}

func renderSummaries(w io.Writer, summaries []analysis.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Region", "Outbreaks", "Diseases", "High", "Medium", "Low", "Most common", "First", "Latest"})
	table.SetAutoFormatHeaders(false)
	for _, s := range summaries {
		mostCommon, first, latest := "-", "-", "-"
		if s.MostCommonDisease != nil {
			mostCommon = *s.MostCommonDisease
		}
		if s.DateRange != nil {
			first = s.DateRange.First.Format(time.DateOnly)
			latest = s.DateRange.Latest.Format(time.DateOnly)
		}
		table.Append([]string{
			string(s.Region),
			strconv.Itoa(s.TotalOutbreaks),
			strconv.Itoa(s.UniqueDiseases),
			strconv.Itoa(s.SeverityDistribution.High),
			strconv.Itoa(s.SeverityDistribution.Medium),
			strconv.Itoa(s.SeverityDistribution.Low),
			mostCommon,
			first,
			latest,
		})
	}
	table.Render()
}

func renderDiseases(w io.Writer, stats []analysis.DiseaseStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Disease", "Count", "Priority", "High", "Medium", "Low", "Latest"})
	table.SetAutoFormatHeaders(false)
	for _, st := range stats {
		latest := "-"
		if st.LatestDate != nil {
			latest = st.LatestDate.Format(time.DateOnly)
		}
		table.Append([]string{
			st.Disease,
			strconv.Itoa(st.Count),
			string(st.Priority),
			strconv.Itoa(st.Severity.Get(domain.SeverityHigh)),
			strconv.Itoa(st.Severity.Get(domain.SeverityMedium)),
			strconv.Itoa(st.Severity.Get(domain.SeverityLow)),
			latest,
		})
	}
	table.Render()
}
