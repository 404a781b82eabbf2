package commands

import (
	"context"
	"github.com/denismitr/tally"
	"github.com/denismitr/tally/internal/logger"
	"github.com/denismitr/tally/internal/settings"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries what every command needs once the root pre-run resolved
// settings and the logger.
type app struct {
	configFile string
	credential string

	settings *settings.Settings
	log      *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "tally",
		Short: "Anonymous anatomical measurement survey",
		Long: `tally collects anonymous measurements and reports statistics over them.

Examples:
  tally submit --diameter 3 --length 12 --category Latina
  tally stats --category Asiatica --bin-width 0.5
  tally admin records --password <secret>`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (toml, yaml or json)")
	flags.String("data", "", "Records document path, :memory: for a throwaway survey")
	flags.String("driver", "", "Storage driver: json, sqlite or memory")
	flags.StringVar(&a.credential, "password", "", "Admin password")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := settings.New(a.configFile)
		if err != nil {
			return err
		}

		if err := bindFlags(v, root); err != nil {
			return err
		}

		s, err := settings.Load(v)
		if err != nil {
			return err
		}

		l, err := logger.New(s.Log.JSON, s.Log.Level)
		if err != nil {
			return err
		}

		a.settings = s
		a.log = l
		return nil
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = a.log.Sync()
	}

	root.AddCommand(
		newSubmitCmd(a),
		newStatsCmd(a),
		newCategoriesCmd(),
		newAdminCmd(a),
	)

	return root
}

func bindFlags(v *viper.Viper, root *cobra.Command) error {
	for key, flag := range map[string]string{
		"data.path":   "data",
		"data.driver": "driver",
	} {
		if err := v.BindPFlag(key, root.PersistentFlags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "could not bind --%s", flag)
		}
	}

	return nil
}

func (a *app) open() (*tally.Survey, tally.Closer, error) {
	cfg, err := a.settings.SurveyConfig(a.log)
	if err != nil {
		return nil, tally.NullCloser, err
	}

	return tally.Open(a.settings.Data.Path, cfg)
}

// withSurvey opens the survey for the duration of fn.
func (a *app) withSurvey(ctx context.Context, fn func(sv *tally.Survey) error) (retErr error) {
	sv, closer, err := a.open()
	if err != nil {
		return errors.Wrap(err, "could not open survey")
	}

	defer func() {
		if err := closer(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	return fn(sv)
}

func (a *app) authorization() (tally.Authorization, error) {
	gate := a.settings.Gate()
	if !gate.Enabled() {
		return tally.Anonymous(), errors.Wrap(tally.ErrUnauthorized, "admin is disabled, set admin.password")
	}

	auth := gate.Authorize(a.credential)
	if !auth.IsAdmin() {
		a.log.Warn("admin access denied")
		return auth, errors.Wrap(tally.ErrUnauthorized, "wrong password")
	}

	return auth, nil
}
