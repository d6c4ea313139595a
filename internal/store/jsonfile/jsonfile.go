// Package jsonfile stores each collection as <kind>.json in a data directory.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inovelapp/inovel-server/internal/store"
)

// Name is the backend name used in configuration.
const Name = "jsonfile"

const filePerm = 0o644

// Backend reads and writes collection files in one directory.
type Backend struct {
	dir    string
	logger *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

// Open creates the data directory if needed.
func Open(dir string, logger *slog.Logger) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if logger != nil {
		logger.Info("json data directory ready", "path", dir)
	}
	return &Backend{dir: dir, logger: logger}, nil
}

// Name implements store.Backend.
func (b *Backend) Name() string { return Name }

// Dir returns the data directory.
func (b *Backend) Dir() string { return b.dir }

// Path returns the file holding kind.
func (b *Backend) Path(kind store.Kind) string {
	return filepath.Join(b.dir, string(kind)+".json")
}

// Read implements store.Backend.
func (b *Backend) Read(ctx context.Context, kind store.Kind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Path(kind), err)
	}
	return data, nil
}

// Write implements store.Backend. The document is written to a temporary
// file in the same directory, synced, and renamed over the old file.
func (b *Backend) Write(ctx context.Context, kind store.Kind, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, "."+string(kind)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, b.Path(kind)); err != nil {
		return fmt.Errorf("replace %s: %w", b.Path(kind), err)
	}
	committed = true
	return nil
}

// Close implements store.Backend.
func (b *Backend) Close() error { return nil }
