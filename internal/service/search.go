package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/search"
	"github.com/inovelapp/inovel-server/internal/store"
)

// SearchService bridges the full-text index with the novels collection.
type SearchService struct {
	index  *search.Index
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a full-text query.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed novels.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll replaces the index contents with the current catalog and
// returns the number of novels indexed.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	s.logger.Info("starting full reindex")

	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load novels: %w", err)
	}

	if err := s.index.Replace(novels); err != nil {
		return 0, fmt.Errorf("replace index: %w", err)
	}

	s.logger.Info("full reindex complete", "novels", len(novels))
	return len(novels), nil
}

// EnsureIndexed reindexes when the index is empty, as after a first start
// or a mapping change.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.ReindexAll(ctx)
	return err
}
