package commands

import (
	"fmt"
	"github.com/denismitr/tally"
	"github.com/spf13/cobra"
)

type measurementFlags struct {
	diameter float64
	length   float64
	category string
}

func (mf *measurementFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mf.diameter, "diameter", 0, "Diameter in cm")
	cmd.Flags().Float64Var(&mf.length, "length", 0, "Length in cm")
	cmd.Flags().StringVar(&mf.category, "category", "", "One of the survey categories, see tally categories")

	_ = cmd.MarkFlagRequired("diameter")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("category")
}

func (mf *measurementFlags) measurement() tally.Measurement {
	return tally.Measurement{
		Diameter: mf.diameter,
		Length:   mf.length,
		Category: tally.Category(mf.category),
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	mf := &measurementFlags{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an anonymous measurement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				r, err := sv.Submit(cmd.Context(), mf.measurement())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Thank you, your data has been recorded anonymously.\n")
				fmt.Fprintf(cmd.OutOrStdout(), "Volume: %.2f cm³, estimated weight: %.2f g\n", r.Volume, r.Weight)
				return nil
			})
		},
	}

	mf.register(cmd)
	return cmd
}
