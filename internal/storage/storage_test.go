package storage

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDriver(t *testing.T) {
	tt := []struct {
		in       string
		expected Driver
		err      error
	}{
		{"", JSON, nil},
		{"json", JSON, nil},
		{"sqlite", SQLite, nil},
		{"memory", Memory, nil},
		{"postgres", "", ErrUnknownDriver},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			d, err := ParseDriver(tc.in)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestCheckOffset(t *testing.T) {
	assert.NoError(t, CheckOffset(0, 1))
	assert.NoError(t, CheckOffset(2, 3))
	assert.True(t, errors.Is(CheckOffset(3, 3), ErrOffsetOutOfRange))
	assert.True(t, errors.Is(CheckOffset(-1, 3), ErrOffsetOutOfRange))
	assert.True(t, errors.Is(CheckOffset(0, 0), ErrOffsetOutOfRange))
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")

	exists, err := FileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = FileExists(dir)
	assert.True(t, errors.Is(err, ErrNotAFile), "directories are not files")

	f, closer, err := CreateFileUnderLock(path, DefaultFilePerm)
	require.NoError(t, err)
	_, err = f.WriteString("[]")
	require.NoError(t, err)
	require.NoError(t, closer())

	exists, err = FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = FileExists(filepath.Join(path, "nested.json"))
	assert.Error(t, err, "a regular file is not a parent directory")

	rf, rClose, err := OpenFile(path)
	require.NoError(t, err)
	defer rClose()

	size, err := FileSize(rf)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	_, _, err = OpenFile(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
