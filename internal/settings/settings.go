package settings

import (
	"github.com/denismitr/tally"
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"strings"
)

const EnvPrefix = "TALLY"

const DefaultDataPath = "dati_peni.json"

type Settings struct {
	Data   DataSettings   `mapstructure:"data"`
	Survey SurveySettings `mapstructure:"survey"`
	Admin  AdminSettings  `mapstructure:"admin"`
	Log    LogSettings    `mapstructure:"log"`
}

type DataSettings struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"`
}

type SurveySettings struct {
	Density         float64 `mapstructure:"density"`
	BinWidth        float64 `mapstructure:"bin_width"`
	DetectConflicts bool    `mapstructure:"detect_conflicts"`
}

// AdminSettings holds the admin secret. An empty password disables admin.
type AdminSettings struct {
	Password string `mapstructure:"password"`
}

type LogSettings struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", DefaultDataPath)
	v.SetDefault("data.driver", string(storage.JSON))

	v.SetDefault("survey.density", tally.DefaultDensity)
	v.SetDefault("survey.bin_width", 1.0)
	v.SetDefault("survey.detect_conflicts", false)

	v.SetDefault("admin.password", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
}

// New prepares a viper instance reading TALLY_* environment variables and,
// when configFile is set, that file. Without configFile a tally.{toml,yaml,json}
// in the working directory is read if present.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", configFile)
		}

		return v, nil
	}

	v.SetConfigName("tally")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "could not read config file")
		}
	}

	return v, nil
}

func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal settings")
	}

	if _, err := storage.ParseDriver(s.Data.Driver); err != nil {
		return nil, err
	}

	return &s, nil
}

// SurveyConfig maps the settings onto the library config.
func (s *Settings) SurveyConfig(log *zap.Logger) (*tally.Config, error) {
	driver, err := storage.ParseDriver(s.Data.Driver)
	if err != nil {
		return nil, err
	}

	return &tally.Config{
		Driver:          driver,
		Density:         s.Survey.Density,
		BinWidth:        s.Survey.BinWidth,
		DetectConflicts: s.Survey.DetectConflicts,
		Logger:          log,
	}, nil
}

func (s *Settings) Gate() tally.Gate {
	return tally.NewGate(s.Admin.Password)
}
