package storage

import (
	"context"
	"github.com/denismitr/tally/internal/data"
	"github.com/pkg/errors"
	"os"
)

var ErrOffsetOutOfRange = errors.New("offset out of range")
var ErrUnknownDriver = errors.New("unknown storage driver")
var ErrNotAFile = errors.New("path is not a regular file")

const DefaultFilePerm os.FileMode = 0644

type Driver string

const (
	JSON   Driver = "json"
	SQLite Driver = "sqlite"
	Memory Driver = "memory"
)

// Storage persists the full, ordered sequence of records.
// Offsets are zero based positions in insertion order.
type Storage interface {
	Load(ctx context.Context) ([]data.Record, error)
	Save(ctx context.Context, records []data.Record) error
	Append(ctx context.Context, r data.Record) error
	RemoveAt(ctx context.Context, offset int) error
	Close() error
}

func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case JSON, SQLite, Memory:
		return d, nil
	case "":
		return JSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownDriver, "%q", s)
	}
}

// FileExists reports false only when nothing is at path.
// Any other stat failure, or a directory at path, is an error.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "could not stat %s", path)
	}

	if info.IsDir() {
		return false, errors.Wrapf(ErrNotAFile, "%s is a directory", path)
	}

	return true, nil
}

func OpenFile(path string) (*os.File, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open file %s", path)
	}

	return f, f.Close, nil
}

func FileSize(f *os.File) (int, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "could not measure file %s size", f.Name())
	}

	size64 := info.Size()
	if int64(int(size64)) != size64 {
		return 0, errors.Errorf("file %s is too large", f.Name())
	}

	return int(size64), nil
}

// CreateFileUnderLock truncates or creates path for writing.
// Callers are expected to hold their own write lock.
func CreateFileUnderLock(path string, perm os.FileMode) (*os.File, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not create file %s", path)
	}

	return f, f.Close, nil
}

func CheckOffset(offset, n int) error {
	if offset < 0 || offset >= n {
		return errors.Wrapf(ErrOffsetOutOfRange, "offset %d, records %d", offset, n)
	}

	return nil
}
