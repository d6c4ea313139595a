package store

import (
	"context"
	"errors"
)

// Kind names one of the persisted collections.
type Kind string

const (
	KindNovels   Kind = "novels"
	KindUsers    Kind = "users"
	KindComments Kind = "comments"
)

// Kinds lists every collection in a stable order.
var Kinds = []Kind{KindNovels, KindUsers, KindComments}

// ParseKind resolves a collection name.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// ErrDocumentNotFound is returned by a Backend when a collection has never
// been written.
var ErrDocumentNotFound = errors.New("document not found")

// Backend persists whole collection documents. Each document is the complete
// JSON array of a collection; backends never look inside it.
type Backend interface {
	// Name identifies the backend in logs and health output.
	Name() string
	// Read returns the stored document or ErrDocumentNotFound.
	Read(ctx context.Context, kind Kind) ([]byte, error)
	// Write replaces the stored document. Readers must never observe a
	// partially written document.
	Write(ctx context.Context, kind Kind, data []byte) error
	Close() error
}
