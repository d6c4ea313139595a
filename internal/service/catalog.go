package service

import (
	"context"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/catalog"
	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
)

// CatalogService serves the read-only browsing views. Every call loads the
// novels collection afresh.
type CatalogService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// Search returns novels whose title or author contains query.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Novel, error) {
	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(novels, query), nil
}

// Home builds the landing page shelves over the novels matching query.
func (s *CatalogService) Home(ctx context.Context, query string) (*catalog.HomeView, error) {
	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	home := catalog.Home(novels, query)
	return &home, nil
}

// Genres lists the categories in display order.
func (s *CatalogService) Genres() []domain.Genre {
	return append([]domain.Genre(nil), domain.Genres...)
}

// CategoryRequest selects a genre listing. Genre may be a slug or the
// stored genre name.
type CategoryRequest struct {
	Genre  string
	Status string
	Sort   string
}

// CategoryResult is one genre listing.
type CategoryResult struct {
	Genre  domain.Genre
	Status string
	Sort   catalog.SortKey
	Novels []domain.Novel
}

// Category filters and sorts one genre. An unknown genre yields an empty
// listing rather than an error.
func (s *CatalogService) Category(ctx context.Context, req CategoryRequest) (*CategoryResult, error) {
	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}

	genre, _ := domain.LookupGenre(req.Genre)
	status := req.Status
	if domain.IsAllStatuses(status) {
		status = domain.StatusAll
	}
	sortKey := catalog.ParseSortKey(req.Sort)

	return &CategoryResult{
		Genre:  genre,
		Status: status,
		Sort:   sortKey,
		Novels: catalog.Category(novels, catalog.CategoryQuery{
			Genre:  genre.Name,
			Status: status,
			Sort:   sortKey,
		}),
	}, nil
}

// Ranking builds the leaderboards over the whole catalog.
func (s *CatalogService) Ranking(ctx context.Context) (*catalog.RankingView, error) {
	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	ranking := catalog.Ranking(novels)
	return &ranking, nil
}
