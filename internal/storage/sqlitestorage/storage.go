package sqlitestorage

import (
	"context"
	"database/sql"
	"github.com/denismitr/tally/internal/data"
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	diametro  REAL NOT NULL,
	lunghezza REAL NOT NULL,
	volume    REAL NOT NULL,
	peso      REAL NOT NULL,
	etnia     TEXT NOT NULL
)`

// SQLiteStorage keeps one row per record; row id order is insertion order.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

var _ storage.Storage = (*SQLiteStorage)(nil)

func Open(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Wrapf(err, "could not create directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open sqlite database %s", path)
	}

	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "could not create records table")
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

func (s *SQLiteStorage) Path() string {
	return s.path
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]data.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT diametro, lunghezza, volume, peso, etnia FROM records ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "could not select records")
	}

	defer func() { _ = rows.Close() }()

	records := make([]data.Record, 0)
	for rows.Next() {
		var r data.Record
		var category string
		if err := rows.Scan(&r.Diameter, &r.Length, &r.Volume, &r.Weight, &category); err != nil {
			return nil, errors.Wrap(err, "could not scan record")
		}

		r.Category = data.Category(category)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not iterate records")
	}

	return records, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, records []data.Record) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return errors.Wrap(err, "could not clear records")
	}

	for i := range records {
		if err := insert(ctx, tx, records[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "could not commit records")
	}

	return nil
}

func (s *SQLiteStorage) Append(ctx context.Context, r data.Record) error {
	return insert(ctx, s.db, r)
}

func (s *SQLiteStorage) RemoveAt(ctx context.Context, offset int) (retErr error) {
	if offset < 0 {
		return storage.CheckOffset(offset, 0)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM records ORDER BY id LIMIT 1 OFFSET ?`, offset).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		var n int
		if cErr := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); cErr != nil {
			return errors.Wrap(cErr, "could not count records")
		}
		return storage.CheckOffset(offset, n)
	} else if err != nil {
		return errors.Wrapf(err, "could not resolve record at offset %d", offset)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "could not delete record at offset %d", offset)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "could not commit removal")
	}

	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insert(ctx context.Context, e execer, r data.Record) error {
	if _, err := e.ExecContext(
		ctx,
		`INSERT INTO records (diametro, lunghezza, volume, peso, etnia) VALUES (?, ?, ?, ?, ?)`,
		r.Diameter, r.Length, r.Volume, r.Weight, string(r.Category),
	); err != nil {
		return errors.Wrap(err, "could not insert record")
	}

	return nil
}
