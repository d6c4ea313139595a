// Package store persists the novels, users, and comments collections.
//
// Each collection is one document that is read in full at the start of an
// operation and rewritten in full by mutations. Where the documents live is
// decided by a Backend: JSON files, a Badger database, or SQLite.
package store

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
)

// Store holds the three collections over a shared backend.
type Store struct {
	backend Backend
	logger  *slog.Logger

	Novels   *Collection[domain.Novel]
	Users    *Collection[domain.User]
	Comments *Collection[domain.Comment]
}

// New creates a store over backend.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		backend:  backend,
		logger:   logger,
		Novels:   NewCollection[domain.Novel](KindNovels, backend, logger),
		Users:    NewCollection[domain.User](KindUsers, backend, logger),
		Comments: NewCollection[domain.Comment](KindComments, backend, logger),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	s.logger.Info("closing store", "backend", s.backend.Name())
	return s.backend.Close()
}

// Bootstrap prepares a fresh data location: empty users and comments
// documents are created when missing. The catalog is never invented; a
// missing novels document is only reported.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, kind := range []Kind{KindUsers, KindComments} {
		_, err := s.backend.Read(ctx, kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrDocumentNotFound) {
			return domainerrors.Storagef(err, "read %s document", kind)
		}
		empty, _ := Encode([]struct{}{})
		if err := s.backend.Write(ctx, kind, empty); err != nil {
			return domainerrors.Storagef(err, "create %s document", kind)
		}
		s.logger.Info("created empty collection", "kind", kind, "backend", s.backend.Name())
	}

	ok, err := s.Novels.Exists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("novels document is missing; catalog operations will fail until it is provided",
			"backend", s.backend.Name())
	}
	return nil
}

// FindNovel returns the novel with the given id.
func (s *Store) FindNovel(ctx context.Context, id int) (*domain.Novel, error) {
	novels, err := s.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FindNovelIn(novels, id)
}

// FindNovelIn returns a pointer into novels for the novel with the given id.
func FindNovelIn(novels []domain.Novel, id int) (*domain.Novel, error) {
	for i := range novels {
		if novels[i].ID == id {
			return &novels[i], nil
		}
	}
	return nil, domainerrors.NotFoundf("novel %d not found", id)
}

// FindUserIn returns a pointer into users for the user with the given id.
func FindUserIn(users []domain.User, id int) (*domain.User, error) {
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, domainerrors.NotFoundf("user %d not found", id)
}

// FindUserByName returns a pointer into users for the exact username.
func FindUserByName(users []domain.User, username string) (*domain.User, bool) {
	for i := range users {
		if users[i].Username == username {
			return &users[i], true
		}
	}
	return nil, false
}

// Counts reports the number of records per collection. Missing collections
// count as zero.
func (s *Store) Counts(ctx context.Context) (map[Kind]int, error) {
	counts := make(map[Kind]int, len(Kinds))
	for _, kind := range Kinds {
		data, err := s.backend.Read(ctx, kind)
		if errors.Is(err, ErrDocumentNotFound) {
			counts[kind] = 0
			continue
		}
		if err != nil {
			return nil, domainerrors.Storagef(err, "read %s document", kind)
		}
		n, err := countItems(data)
		if err != nil {
			return nil, domainerrors.Storagef(err, "%s document is malformed", kind)
		}
		counts[kind] = n
	}
	return counts, nil
}

// Copy writes every document found in src into dst and returns how many
// documents were copied. Documents missing from src are skipped.
func Copy(ctx context.Context, src, dst Backend) (int, error) {
	copied := 0
	for _, kind := range Kinds {
		data, err := src.Read(ctx, kind)
		if errors.Is(err, ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("read %s from %s: %w", kind, src.Name(), err)
		}
		if _, err := countItems(data); err != nil {
			return copied, fmt.Errorf("%s document in %s is malformed: %w", kind, src.Name(), err)
		}
		if err := dst.Write(ctx, kind, data); err != nil {
			return copied, fmt.Errorf("write %s to %s: %w", kind, dst.Name(), err)
		}
		copied++
	}
	return copied, nil
}

func countItems(data []byte) (int, error) {
	var items []jsontext.Value
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, err
	}
	return len(items), nil
}
