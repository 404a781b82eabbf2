package tally

import "github.com/pkg/errors"

var ErrTxIsReadOnly = errors.New("transaction is read only")
var ErrInvalidIndex = errors.New("invalid record index")

// Tx works on a snapshot of the records loaded when it began.
// Writes are applied to the snapshot right away, the whole snapshot is saved
// on commit.
type Tx struct {
	readOnly    bool
	deriver     Deriver
	records     []Record
	fingerprint uint64
	ops         []string
}

// Records returns a copy of the snapshot in insertion order.
func (x *Tx) Records() []Record {
	rs := make([]Record, len(x.records))
	copy(rs, x.records)
	return rs
}

func (x *Tx) Count() int {
	return len(x.records)
}

func (x *Tx) Get(i int) (Record, error) {
	if err := x.checkIndex(i); err != nil {
		return Record{}, err
	}

	return x.records[i], nil
}

// Insert validates m, derives volume and weight and appends the record.
func (x *Tx) Insert(m Measurement) (Record, error) {
	if x.readOnly {
		return Record{}, ErrTxIsReadOnly
	}

	r, err := x.deriver.Derive(m)
	if err != nil {
		return Record{}, err
	}

	x.records = append(x.records, r)
	x.ops = append(x.ops, "insert")

	return r, nil
}

// RemoveAt deletes the record at zero based position i and returns it.
func (x *Tx) RemoveAt(i int) (Record, error) {
	if x.readOnly {
		return Record{}, ErrTxIsReadOnly
	}

	if err := x.checkIndex(i); err != nil {
		return Record{}, err
	}

	removed := x.records[i]
	x.records = append(x.records[:i:i], x.records[i+1:]...)
	x.ops = append(x.ops, "remove")

	return removed, nil
}

// Replace derives a record for every measurement and swaps the whole
// sequence for them. Nothing changes if any measurement is invalid.
func (x *Tx) Replace(ms []Measurement) ([]Record, error) {
	if x.readOnly {
		return nil, ErrTxIsReadOnly
	}

	rs := make([]Record, 0, len(ms))
	for i := range ms {
		r, err := x.deriver.Derive(ms[i])
		if err != nil {
			return nil, errors.Wrapf(err, "measurement %d", i)
		}
		rs = append(rs, r)
	}

	x.records = rs
	x.ops = append(x.ops, "replace")

	return x.Records(), nil
}

func (x *Tx) checkIndex(i int) error {
	if i < 0 || i >= len(x.records) {
		return errors.Wrapf(ErrInvalidIndex, "index %d not within [0, %d]", i, len(x.records)-1)
	}

	return nil
}

func (x *Tx) dirty() bool {
	return len(x.ops) > 0
}

func (x *Tx) rollback() {
	x.ops = nil
}
