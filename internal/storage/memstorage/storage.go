package memstorage

import (
	"context"
	"github.com/denismitr/tally/internal/data"
	"github.com/denismitr/tally/internal/storage"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"sync"
)

// MemStorage keeps records in process memory only.
type MemStorage struct {
	mu      sync.RWMutex
	records []data.Record
}

var _ storage.Storage = (*MemStorage)(nil)

func New() *MemStorage {
	return &MemStorage{records: make([]data.Record, 0)}
}

func (s *MemStorage) Load(ctx context.Context) ([]data.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.records)
}

func (s *MemStorage) Save(ctx context.Context, records []data.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp, err := clone(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()

	return nil
}

func (s *MemStorage) Append(ctx context.Context, r data.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	return nil
}

func (s *MemStorage) RemoveAt(ctx context.Context, offset int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.CheckOffset(offset, len(s.records)); err != nil {
		return err
	}

	s.records = append(s.records[:offset], s.records[offset+1:]...)
	return nil
}

func (s *MemStorage) Close() error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}

func clone(records []data.Record) ([]data.Record, error) {
	cp := make([]data.Record, 0, len(records))
	if len(records) == 0 {
		return cp, nil
	}

	if err := copier.Copy(&cp, &records); err != nil {
		return nil, errors.Wrap(err, "could not copy records")
	}

	return cp, nil
}
