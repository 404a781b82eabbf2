package tally

import (
	"context"
	"github.com/denismitr/tally/internal/storage"
	"github.com/denismitr/tally/internal/storage/jsonstorage"
	"github.com/denismitr/tally/internal/storage/memstorage"
	"github.com/denismitr/tally/internal/storage/sqlitestorage"
	"github.com/denismitr/tally/options"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"sync"
)

var ErrSurveyClosed = errors.New("survey already closed")
var ErrConflict = errors.New("records changed since the transaction began")
var ErrPathRequired = errors.New("storage path is required")

// Survey is the record store together with the statistics over it.
// Every call loads the records anew; nothing is cached between calls.
// Access within one process is serialized, separate processes sharing a
// document follow last writer wins unless Config.DetectConflicts is set.
type Survey struct {
	s       storage.Storage
	cfg     *Config
	deriver Deriver
	log     *zap.Logger
	mu      sync.RWMutex
	closed  bool
}

type UserCallback func(tx *Tx) error

type Closer func() error

func NullCloser() error { return nil }

func Open(path string, cfgs ...*Config) (*Survey, Closer, error) {
	cfg := &Config{}
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	}

	sv := &Survey{}
	if err := cfg.applyTo(sv); err != nil {
		return nil, NullCloser, err
	}

	s, err := openStorage(path, sv.cfg.Driver)
	if err != nil {
		return nil, NullCloser, err
	}

	sv.s = s
	sv.log.Debug("survey opened", zap.String("path", path), zap.String("driver", string(sv.cfg.Driver)))

	return sv, sv.close, nil
}

func openStorage(path string, driver Driver) (storage.Storage, error) {
	if path == InMemory || driver == Memory {
		return memstorage.New(), nil
	}

	if path == "" {
		return nil, ErrPathRequired
	}

	switch driver {
	case JSON:
		return jsonstorage.New(path), nil
	case SQLite:
		return sqlitestorage.Open(path)
	default:
		return nil, errors.Wrapf(storage.ErrUnknownDriver, "%q", driver)
	}
}

func (sv *Survey) close() error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if sv.closed {
		return ErrSurveyClosed
	}

	sv.closed = true
	if err := sv.s.Close(); err != nil {
		return errors.Wrap(err, "could not close storage")
	}

	return nil
}

func (sv *Survey) begin(ctx context.Context, readOnly bool) (*Tx, error) {
	if sv.closed {
		return nil, ErrSurveyClosed
	}

	records, err := sv.s.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not load records")
	}

	sv.log.Debug("records loaded", zap.Int("count", len(records)), zap.Bool("read_only", readOnly))

	tx := &Tx{
		readOnly: readOnly,
		deriver:  sv.deriver,
		records:  records,
	}

	if !readOnly && sv.cfg.DetectConflicts {
		tx.fingerprint = Fingerprint(records)
	}

	return tx, nil
}

func (sv *Survey) View(ctx context.Context, cb UserCallback) error {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	tx, err := sv.begin(ctx, true)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		return errors.Wrap(err, "survey read failed")
	}

	return nil
}

func (sv *Survey) Update(ctx context.Context, cb UserCallback) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	tx, err := sv.begin(ctx, false)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		tx.rollback()
		return errors.Wrap(err, "survey write failed. rolled back")
	}

	return sv.commit(ctx, tx)
}

func (sv *Survey) commit(ctx context.Context, tx *Tx) error {
	if !tx.dirty() {
		return nil
	}

	if sv.cfg.DetectConflicts {
		current, err := sv.s.Load(ctx)
		if err != nil {
			return errors.Wrap(err, "could not reload records to detect conflicts")
		}

		if Fingerprint(current) != tx.fingerprint {
			sv.log.Warn("commit rejected, records changed concurrently", zap.Strings("ops", tx.ops))
			return errors.Wrapf(ErrConflict, "%d writes discarded", len(tx.ops))
		}
	}

	// the snapshot is written in one step so a failed commit saves nothing
	if err := sv.s.Save(ctx, tx.records); err != nil {
		return errors.Wrapf(err, "could not save %d writes", len(tx.ops))
	}

	sv.log.Debug("transaction committed", zap.Strings("ops", tx.ops), zap.Int("count", tx.Count()))
	return nil
}

// Load returns all records in insertion order.
func (sv *Survey) Load(ctx context.Context) ([]Record, error) {
	var records []Record
	err := sv.View(ctx, func(tx *Tx) error {
		records = tx.Records()
		return nil
	})

	return records, err
}

func (sv *Survey) Count(ctx context.Context) (int, error) {
	var n int
	err := sv.View(ctx, func(tx *Tx) error {
		n = tx.Count()
		return nil
	})

	return n, err
}

// Submit is the public, anonymous insertion path.
func (sv *Survey) Submit(ctx context.Context, m Measurement) (Record, error) {
	var r Record
	err := sv.Update(ctx, func(tx *Tx) error {
		var err error
		r, err = tx.Insert(m)
		return err
	})

	return r, err
}

// Add is the administrative manual entry. It validates and derives
// exactly like Submit.
func (sv *Survey) Add(ctx context.Context, auth Authorization, m Measurement) (Record, error) {
	if err := auth.require("add record"); err != nil {
		return Record{}, err
	}

	r, err := sv.Submit(ctx, m)
	if err != nil {
		return Record{}, err
	}

	sv.log.Info("record added by admin", zap.String("category", string(r.Category)))
	return r, nil
}

// Delete removes the record at zero based position i.
func (sv *Survey) Delete(ctx context.Context, auth Authorization, i int) (Record, error) {
	if err := auth.require("delete record"); err != nil {
		return Record{}, err
	}

	var removed Record
	err := sv.Update(ctx, func(tx *Tx) error {
		var err error
		removed, err = tx.RemoveAt(i)
		return err
	})

	if err != nil {
		return Record{}, err
	}

	sv.log.Info("record deleted by admin", zap.Int("index", i))
	return removed, nil
}

// Records is the raw data dump of the admin panel.
func (sv *Survey) Records(ctx context.Context, auth Authorization) ([]Record, error) {
	if err := auth.require("list records"); err != nil {
		return nil, err
	}

	return sv.Load(ctx)
}

// Import replaces every record with ones derived from ms.
func (sv *Survey) Import(ctx context.Context, auth Authorization, ms []Measurement) ([]Record, error) {
	if err := auth.require("import records"); err != nil {
		return nil, err
	}

	var records []Record
	err := sv.Update(ctx, func(tx *Tx) error {
		var err error
		records, err = tx.Replace(ms)
		return err
	})

	if err != nil {
		return nil, err
	}

	sv.log.Info("records imported by admin", zap.Int("count", len(records)))
	return records, nil
}

// Report builds the statistics page. It fails with ErrEmptyInput while
// there is nothing to show.
func (sv *Survey) Report(ctx context.Context, opts *options.ReportOptions) (*Report, error) {
	o := options.Report()
	if opts != nil {
		*o = *opts
	}

	if o.BinWidth == 0 {
		o.BinWidth = sv.cfg.BinWidth
	}

	var report *Report
	err := sv.View(ctx, func(tx *Tx) error {
		var err error
		report, err = BuildReport(tx.records, o)
		return err
	})

	return report, err
}
