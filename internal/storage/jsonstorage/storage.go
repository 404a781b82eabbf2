package jsonstorage

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/denismitr/tally/internal/data"
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"io"
	"math"
	"os"
	"sync"
)

var ErrCorruptDocument = errors.New("records document is corrupt")

const (
	diameterField = "diametro"
	lengthField   = "lunghezza"
	volumeField   = "volume"
	weightField   = "peso"
	categoryField = "etnia"
)

// JSONStorage keeps all records in one JSON array document.
// Every mutation rewrites the whole document through a temp file.
type JSONStorage struct {
	fullPath string
	tmpPath  string

	mu sync.RWMutex
}

var _ storage.Storage = (*JSONStorage)(nil)

func New(fullPath string) *JSONStorage {
	return &JSONStorage{fullPath: fullPath, tmpPath: fullPath + ".tmp"}
}

func (s *JSONStorage) Path() string {
	return s.fullPath
}

func (s *JSONStorage) Load(ctx context.Context) ([]data.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readUnderLock()
}

func (s *JSONStorage) Save(ctx context.Context, records []data.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeUnderLock(records)
}

func (s *JSONStorage) Append(ctx context.Context, r data.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readUnderLock()
	if err != nil {
		return err
	}

	return s.writeUnderLock(append(records, r))
}

func (s *JSONStorage) RemoveAt(ctx context.Context, offset int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readUnderLock()
	if err != nil {
		return err
	}

	if err := storage.CheckOffset(offset, len(records)); err != nil {
		return err
	}

	records = append(records[:offset], records[offset+1:]...)
	return s.writeUnderLock(records)
}

func (s *JSONStorage) Close() error {
	return nil
}

func (s *JSONStorage) writeUnderLock(records []data.Record) error {
	if records == nil {
		records = []data.Record{}
	}

	tmpF, tmpClose, err := storage.CreateFileUnderLock(s.tmpPath, storage.DefaultFilePerm)
	if err != nil {
		return err
	}

	e := json.NewEncoder(tmpF)
	e.SetIndent("", "  ")
	if err := e.Encode(records); err != nil {
		_ = tmpClose()
		_ = os.Remove(tmpF.Name())
		return errors.Wrapf(err, "could not write to tmp file %s", tmpF.Name())
	}

	if err := tmpF.Sync(); err != nil {
		_ = tmpClose()
		_ = os.Remove(tmpF.Name())
		return errors.Wrapf(err, "could not sync tmp file %s", tmpF.Name())
	}

	if err := tmpClose(); err != nil {
		_ = os.Remove(tmpF.Name())
		return errors.Wrapf(err, "could not close tmp file %s", tmpF.Name())
	}

	if err := os.Rename(tmpF.Name(), s.fullPath); err != nil {
		_ = os.Remove(tmpF.Name())
		return errors.Wrapf(err, "could not replace %s with %s", s.fullPath, tmpF.Name())
	}

	return nil
}

func (s *JSONStorage) readUnderLock() ([]data.Record, error) {
	exists, err := storage.FileExists(s.fullPath)
	if err != nil {
		return nil, err
	}

	if !exists {
		return []data.Record{}, nil
	}

	f, fClose, err := storage.OpenFile(s.fullPath)
	if err != nil {
		return nil, err
	}

	defer fClose()

	size, err := storage.FileSize(f)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, size+1))
	if _, err := io.Copy(buf, f); err != nil {
		return nil, errors.Wrapf(err, "could not read %s", s.fullPath)
	}

	records, err := decode(buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", s.fullPath)
	}

	return records, nil
}

// decode accepts numbers written either as integers or floats,
// which older documents contain.
func decode(b []byte) ([]data.Record, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []data.Record{}, nil
	}

	if !gjson.ValidBytes(b) {
		return nil, errors.Wrap(ErrCorruptDocument, "invalid json")
	}

	doc := gjson.ParseBytes(b)
	if !doc.IsArray() {
		return nil, errors.Wrap(ErrCorruptDocument, "document is not an array")
	}

	records := make([]data.Record, 0)
	var err error
	doc.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = errors.Wrapf(ErrCorruptDocument, "record %d is not an object", len(records))
			return false
		}

		var r data.Record
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{diameterField, &r.Diameter},
			{lengthField, &r.Length},
			{volumeField, &r.Volume},
			{weightField, &r.Weight},
		} {
			*f.dst, err = number(v, f.name)
			if err != nil {
				err = errors.Wrapf(err, "record %d", len(records))
				return false
			}
		}

		category := v.Get(categoryField)
		if category.Type != gjson.String {
			err = errors.Wrapf(ErrCorruptDocument, "record %d: %s is not a string", len(records), categoryField)
			return false
		}

		r.Category = data.Category(category.Str)
		records = append(records, r)

		return true
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// number reads a JSON number field; anything else, or a non finite value, is corrupt.
func number(v gjson.Result, field string) (float64, error) {
	f := v.Get(field)
	if f.Type != gjson.Number {
		return 0, errors.Wrapf(ErrCorruptDocument, "%s is not a number", field)
	}

	n := f.Float()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.Wrapf(ErrCorruptDocument, "%s is not finite", field)
	}

	return n, nil
}
