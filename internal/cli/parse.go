package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

func newParseCommand(a *app) *cobra.Command {
	var (
		region string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse headlines into outbreak records printed as JSON",
		Long: `Parse reads one headline per line and prints the resulting records as a
JSON array, in input order. Every line yields a record, blank lines included.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := domain.RegionAll
			if region != "" {
				var err error
				if tag, err = domain.ParseRegionTag(region); err != nil {
					return err
				}
			}

			records, err := a.loadDataset(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			records, err = domain.FilterRegion(records, tag)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(records)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "keep only records in this region: all, east_africa, uganda")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
