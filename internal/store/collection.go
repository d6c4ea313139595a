package store

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"sync"

	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
)

// Collection is a typed view of one persisted document. Every Load reads the
// backend afresh; there is no cache.
type Collection[T any] struct {
	kind    Kind
	backend Backend
	logger  *slog.Logger

	// mu serializes Save and Update so that read-modify-write cycles on the
	// same collection never interleave.
	mu sync.Mutex
}

// NewCollection creates a collection of kind stored in backend.
func NewCollection[T any](kind Kind, backend Backend, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{kind: kind, backend: backend, logger: logger}
}

// Kind returns the collection name.
func (c *Collection[T]) Kind() Kind {
	return c.kind
}

// Load reads and decodes the whole collection.
// A missing or malformed document is a storage error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.backend.Read(ctx, c.kind)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, domainerrors.Storagef(err, "%s document is missing", c.kind)
	}
	if err != nil {
		return nil, domainerrors.Storagef(err, "read %s document", c.kind)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domainerrors.Storagef(err, "%s document is malformed", c.kind)
	}
	return items, nil
}

// Save replaces the whole collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

// Update loads the collection, applies fn and saves the result, holding the
// collection lock throughout. If fn returns an error nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}

// Exists reports whether the document has been written.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	_, err := c.backend.Read(ctx, c.kind)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDocumentNotFound):
		return false, nil
	default:
		return false, domainerrors.Storagef(err, "read %s document", c.kind)
	}
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(items)
	if err != nil {
		return domainerrors.Storagef(err, "encode %s document", c.kind)
	}
	if err := c.backend.Write(ctx, c.kind, data); err != nil {
		return domainerrors.Storagef(err, "write %s document", c.kind)
	}

	if c.logger != nil {
		c.logger.Debug("collection saved", "kind", c.kind, "items", len(items), "bytes", len(data))
	}
	return nil
}

// Encode renders a collection the way it is stored: a two-space indented JSON
// array with non-ASCII text left unescaped. A nil slice encodes as [].
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items, jsontext.WithIndent("  "))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
