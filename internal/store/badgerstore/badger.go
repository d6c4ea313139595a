// Package badgerstore keeps the collection documents in an embedded Badger
// database, one key per collection.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/inovelapp/inovel-server/internal/store"
)

// Name is the backend name used in configuration.
const Name = "badger"

const keyPrefix = "collection:"

// Backend stores documents under collection:<kind> keys.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

// Open opens or creates the database at path.
func Open(path string, logger *slog.Logger) (*Backend, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	return open(opts, logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger *slog.Logger) (*Backend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Backend, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return &Backend{db: db, logger: logger}, nil
}

func key(kind store.Kind) []byte {
	return []byte(keyPrefix + string(kind))
}

// Name implements store.Backend.
func (b *Backend) Name() string { return Name }

// Read implements store.Backend.
func (b *Backend) Read(ctx context.Context, kind store.Kind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrDocumentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write implements store.Backend. Badger transactions make the replacement
// atomic.
func (b *Backend) Write(ctx context.Context, kind store.Kind, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key(kind), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return nil
	})
}

// Close implements store.Backend.
func (b *Backend) Close() error {
	return b.db.Close()
}
