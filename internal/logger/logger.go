package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

var ErrInvalidLevel = errors.New("invalid log level")

// New builds the command line logger. JSON output uses the zap production
// config, otherwise a console encoder writes to stderr so it never mixes
// with command output.
func New(jsonOutput bool, level string) (*zap.Logger, error) {
	lvl := zap.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidLevel, "%q", level)
		}
		lvl = parsed
	}

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}

		l, err := config.Build()
		if err != nil {
			return nil, errors.Wrap(err, "could not build json logger")
		}

		return l, nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""

	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			lvl,
		),
	), nil
}
