package settings

import (
	"github.com/denismitr/tally"
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	v, err := New("")
	require.NoError(t, err)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataPath, s.Data.Path)
	assert.Equal(t, "json", s.Data.Driver)
	assert.Equal(t, tally.DefaultDensity, s.Survey.Density)
	assert.Equal(t, 1.0, s.Survey.BinWidth)
	assert.False(t, s.Survey.DetectConflicts)
	assert.Equal(t, "", s.Admin.Password)
	assert.False(t, s.Gate().Enabled())
	assert.Equal(t, "warn", s.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TALLY_DATA_PATH", "/var/lib/tally/records.db")
	t.Setenv("TALLY_DATA_DRIVER", "sqlite")
	t.Setenv("TALLY_SURVEY_DENSITY", "1.1")
	t.Setenv("TALLY_SURVEY_DETECT_CONFLICTS", "true")
	t.Setenv("TALLY_ADMIN_PASSWORD", "s3cret")

	v, err := New("")
	require.NoError(t, err)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tally/records.db", s.Data.Path)
	assert.Equal(t, 1.1, s.Survey.Density)
	assert.True(t, s.Survey.DetectConflicts)
	assert.True(t, s.Gate().Authorize("s3cret").IsAdmin())

	cfg, err := s.SurveyConfig(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, storage.SQLite, cfg.Driver)
	assert.Equal(t, 1.1, cfg.Density)
	assert.True(t, cfg.DetectConflicts)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	toml := []byte(`
[data]
path = "survey.json"

[survey]
bin_width = 0.5

[log]
json = true
level = "debug"
`)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.toml"), toml, 0644))

	t.Run("discovered in working directory", func(t *testing.T) {
		v, err := New("")
		require.NoError(t, err)

		s, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "survey.json", s.Data.Path)
		assert.Equal(t, 0.5, s.Survey.BinWidth)
		assert.True(t, s.Log.JSON)
		assert.Equal(t, "debug", s.Log.Level)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("TALLY_SURVEY_BIN_WIDTH", "2")

		v, err := New(filepath.Join(dir, "tally.toml"))
		require.NoError(t, err)

		s, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, 2.0, s.Survey.BinWidth)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})
}

func TestLoad_UnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TALLY_DATA_DRIVER", "csv")

	v, err := New("")
	require.NoError(t, err)

	_, err = Load(v)
	assert.True(t, errors.Is(err, storage.ErrUnknownDriver))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
