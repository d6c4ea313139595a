// Package sqlite keeps the collection documents in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovelapp/inovel-server/internal/store"

	_ "modernc.org/sqlite"
)

// Name is the backend name used in configuration.
const Name = "sqlite"

//go:embed schema.sql
var schemaSQL string

// Backend stores one row per collection.
type Backend struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Backend = (*Backend)(nil)

// Open opens or creates the database at path, configures WAL mode, and
// applies the schema.
func Open(path string, logger *slog.Logger) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("sqlite database opened", "path", path)
	}
	return &Backend{db: db, logger: logger, now: time.Now}, nil
}

// Name implements store.Backend.
func (b *Backend) Name() string { return Name }

// Read implements store.Backend.
func (b *Backend) Read(ctx context.Context, kind store.Kind) ([]byte, error) {
	var doc []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT document FROM collections WHERE kind = ?`, string(kind)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return doc, nil
}

// Write implements store.Backend. The upsert and its history row share a
// transaction.
func (b *Backend) Write(ctx context.Context, kind store.Kind, data []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := formatTime(b.now())
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO collections (kind, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(kind), data, now,
	); err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collection_history (kind, size, written_at) VALUES (?, ?, ?)`,
		string(kind), len(data), now,
	); err != nil {
		return fmt.Errorf("record %s history: %w", kind, err)
	}
	return tx.Commit()
}

// WriteRecord describes one document replacement.
type WriteRecord struct {
	Kind      store.Kind
	Size      int
	WrittenAt time.Time
}

// History returns the most recent writes of kind, newest first.
func (b *Backend) History(ctx context.Context, kind store.Kind, limit int) ([]WriteRecord, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT kind, size, written_at FROM collection_history
		WHERE kind = ? ORDER BY id DESC LIMIT ?`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var writes []WriteRecord
	for rows.Next() {
		var (
			w         WriteRecord
			kindStr   string
			writtenAt string
		)
		if err := rows.Scan(&kindStr, &w.Size, &writtenAt); err != nil {
			return nil, err
		}
		w.Kind = store.Kind(kindStr)
		if w.WrittenAt, err = parseTime(writtenAt); err != nil {
			return nil, err
		}
		writes = append(writes, w)
	}
	return writes, rows.Err()
}

// Close implements store.Backend.
func (b *Backend) Close() error {
	return b.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
