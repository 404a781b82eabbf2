package commands

import (
	"fmt"
	"github.com/denismitr/tally"
	"github.com/denismitr/tally/internal/storage"
	"github.com/denismitr/tally/internal/storage/jsonstorage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"text/tabwriter"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the survey records (requires --password)",
		Long: `admin manages the raw records. Every subcommand requires the admin password
configured through admin.password, admin is disabled while it is empty.

Examples:
  tally admin records --password <secret>
  tally admin delete 3 --password <secret>
  tally admin import backup.json --password <secret>`,
	}

	cmd.AddCommand(
		newAdminRecordsCmd(a),
		newAdminAddCmd(a),
		newAdminDeleteCmd(a),
		newAdminImportCmd(a),
	)

	return cmd
}

func newAdminRecordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Dump every record with its index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authorization()
			if err != nil {
				return err
			}

			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				rs, err := sv.Records(cmd.Context(), auth)
				if err != nil {
					return err
				}

				renderRecords(cmd.OutOrStdout(), rs)
				return nil
			})
		},
	}
}

func newAdminAddCmd(a *app) *cobra.Command {
	mf := &measurementFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record manually",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authorization()
			if err != nil {
				return err
			}

			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				r, err := sv.Add(cmd.Context(), auth, mf.measurement())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Record added: %s\n", describe(r))
				return nil
			})
		},
	}

	mf.register(cmd)
	return cmd
}

func newAdminDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the record at a zero based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authorization()
			if err != nil {
				return err
			}

			i, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(tally.ErrInvalidIndex, "%q is not a number", args[0])
			}

			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				removed, err := sv.Delete(cmd.Context(), auth, i)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Record %d deleted: %s\n", i, describe(removed))
				return nil
			})
		},
	}
}

func newAdminImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every record with the ones in a JSON document",
		Long: `import reads a JSON array of records in the survey document format and
replaces all records with them. Volume and weight are derived again, nothing
is imported if any record is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authorization()
			if err != nil {
				return err
			}

			exists, err := storage.FileExists(args[0])
			if err != nil {
				return err
			}

			if !exists {
				return errors.Errorf("import file %s does not exist", args[0])
			}

			src, err := jsonstorage.New(args[0]).Load(cmd.Context())
			if err != nil {
				return errors.Wrapf(err, "could not read %s", args[0])
			}

			ms := make([]tally.Measurement, 0, len(src))
			for _, r := range src {
				ms = append(ms, tally.Measurement{Diameter: r.Diameter, Length: r.Length, Category: r.Category})
			}

			return a.withSurvey(cmd.Context(), func(sv *tally.Survey) error {
				rs, err := sv.Import(cmd.Context(), auth, ms)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d records imported\n", len(rs))
				return nil
			})
		},
	}
}

func renderRecords(w io.Writer, rs []tally.Record) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "no records")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tdiametro\tlunghezza\tvolume\tpeso\tetnia\t")
	for i, r := range rs {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%.2f\t%.2f\t%s\t\n", i, r.Diameter, r.Length, r.Volume, r.Weight, r.Category)
	}
	_ = tw.Flush()
}
