package commands

import (
	"encoding/json"
	"github.com/denismitr/tally"
	"github.com/denismitr/tally/options"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		category string
		binWidth float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics and the length histogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options.Report().
				SetCategory(tally.Category(category)).
				SetBinWidth(binWidth)

			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				report, err := sv.Report(cmd.Context(), opts)
				if errors.Is(err, tally.ErrEmptyInput) {
					return renderAwaiting(cmd.OutOrStdout(), opts.Category, asJSON)
				} else if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(newReportView(report))
				}

				renderReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", string(tally.AllCategories), "Category to break down, all for every record")
	cmd.Flags().Float64Var(&binWidth, "bin-width", 0, "Histogram bin width in cm, 0 uses the configured one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
