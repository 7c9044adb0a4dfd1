package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
)

// SnapshotStore persists the raw parts of the history ring buffer: every physical slot
// together with the offset of the most recent one.
type SnapshotStore struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*SnapshotStore, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS snapshot_meta (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			capacity INTEGER NOT NULL,
			first    INTEGER NOT NULL,
			saved_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snapshot_slots (
			slot        INTEGER PRIMARY KEY,
			seq         INTEGER,
			value       REAL,
			observed_at DATETIME,
			raw         BLOB
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot tables: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored snapshot within a single db transaction. Nil records are stored as empty slots.
func (s *SnapshotStore) Save(ctx context.Context, storage []*store.Record, first int) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM snapshot_slots`)
	if err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_slots (slot, seq, value, observed_at, raw) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare slot insert: %w", err)
	}
	defer stmt.Close()

	for slot, rec := range storage {
		if rec == nil {
			_, err = stmt.ExecContext(ctx, slot, nil, nil, nil, nil)
		} else {
			_, err = stmt.ExecContext(ctx, slot, int64(rec.Seq), rec.Value, rec.ObservedAt.UTC().Format(time.RFC3339Nano), rec.Raw)
		}
		if err != nil {
			return fmt.Errorf("insert slot %d: %w", slot, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, capacity, first, saved_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET capacity = excluded.capacity, first = excluded.first, saved_at = excluded.saved_at
	`, len(storage), first, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert snapshot meta: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or store.ErrNotFound if nothing was saved yet.
func (s *SnapshotStore) Load(ctx context.Context) ([]*store.Record, int, error) {
	var capacity, first int
	err := s.db.QueryRowContext(ctx, `SELECT capacity, first FROM snapshot_meta WHERE id = 1`).Scan(&capacity, &first)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, store.ErrNotFound
		}
		return nil, 0, fmt.Errorf("query snapshot meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT slot, seq, value, observed_at, raw FROM snapshot_slots ORDER BY slot`)
	if err != nil {
		return nil, 0, fmt.Errorf("query snapshot slots: %w", err)
	}
	defer rows.Close()

	storage := make([]*store.Record, capacity)
	for rows.Next() {
		var (
			slot       int
			seq        sql.NullInt64
			value      sql.NullFloat64
			observedAt sql.NullString
			raw        []byte
		)
		err = rows.Scan(&slot, &seq, &value, &observedAt, &raw)
		if err != nil {
			return nil, 0, fmt.Errorf("scan snapshot slot: %w", err)
		}
		if slot < 0 || slot >= capacity {
			return nil, 0, fmt.Errorf("snapshot slot %d out of range for capacity %d", slot, capacity)
		}
		if !seq.Valid {
			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, observedAt.String)
		if err != nil {
			return nil, 0, fmt.Errorf("parse observed_at of slot %d: %w", slot, err)
		}
		storage[slot] = &store.Record{
			Seq:        uint64(seq.Int64),
			Value:      value.Float64,
			ObservedAt: ts,
			Raw:        raw,
		}
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate snapshot slots: %w", err)
	}

	return storage, first, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
