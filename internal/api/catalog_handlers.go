package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/service"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "home",
		Method:      http.MethodGet,
		Path:        "/api/v1/home",
		Summary:     "Home page",
		Description: "Returns the search results and the carousel, featured, newest and finished shelves derived from them",
		Tags:        []string{"Catalog"},
	}, s.handleHome)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchNovels",
		Method:      http.MethodGet,
		Path:        "/api/v1/novels",
		Summary:     "Search novels",
		Description: "Case-sensitive substring match on title or author. An empty query lists the whole catalog.",
		Tags:        []string{"Catalog"},
	}, s.handleSearchNovels)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Tags:        []string{"Catalog"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{genre}",
		Summary:     "Category listing",
		Description: "Lists the novels of one genre, optionally filtered by status and sorted",
		Tags:        []string{"Catalog"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "ranking",
		Method:      http.MethodGet,
		Path:        "/api/v1/ranking",
		Summary:     "Rankings",
		Description: "Top novels by votes, favorites, views and id over the whole catalog",
		Tags:        []string{"Catalog"},
	}, s.handleRanking)
}

// === DTOs ===

// QueryInput carries an optional search query.
type QueryInput struct {
	Query string `query:"q" maxLength:"200" doc:"Substring of a title or author"`
}

// HomeResponse contains the home page shelves.
type HomeResponse struct {
	Query    string         `json:"query"`
	Results  []NovelSummary `json:"results"`
	Carousel []NovelSummary `json:"carousel" doc:"Top 3 by views"`
	Featured []NovelSummary `json:"featured" doc:"Top 6 by votes"`
	Newest   []NovelSummary `json:"newest" doc:"Top 6 by id"`
	Finished []NovelSummary `json:"finished" doc:"First 6 completed novels"`
}

// HomeOutput wraps the home response for Huma.
type HomeOutput struct {
	Body HomeResponse
}

// NovelListResponse is a flat list of novels.
type NovelListResponse struct {
	Query  string         `json:"query"`
	Total  int            `json:"total"`
	Novels []NovelSummary `json:"novels"`
}

// NovelListOutput wraps a novel list for Huma.
type NovelListOutput struct {
	Body NovelListResponse
}

// CategoriesResponse lists the fixed genres.
type CategoriesResponse struct {
	Genres []domain.Genre `json:"genres"`
}

// CategoriesOutput wraps the genre list for Huma.
type CategoriesOutput struct {
	Body CategoriesResponse
}

// CategoryInput selects a genre listing.
type CategoryInput struct {
	Genre  string `path:"genre" doc:"Genre slug or name"`
	Status string `query:"status" doc:"all, ongoing, completed (legacy labels accepted)"`
	Sort   string `query:"sort" doc:"popularity, update, favorites or votes (legacy labels accepted)"`
}

// CategoryResponse is one genre listing.
type CategoryResponse struct {
	Genre  domain.Genre   `json:"genre"`
	Status string         `json:"status"`
	Sort   string         `json:"sort"`
	Novels []NovelSummary `json:"novels"`
}

// CategoryOutput wraps a genre listing for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// RankingResponse holds the four leaderboards.
type RankingResponse struct {
	Votes     []NovelSummary `json:"votes"`
	Favorites []NovelSummary `json:"favorites"`
	Views     []NovelSummary `json:"views"`
	Newest    []NovelSummary `json:"newest"`
}

// RankingOutput wraps the leaderboards for Huma.
type RankingOutput struct {
	Body RankingResponse
}

// === Handlers ===

func (s *Server) handleHome(ctx context.Context, input *QueryInput) (*HomeOutput, error) {
	home, err := s.services.Catalog.Home(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &HomeOutput{
		Body: HomeResponse{
			Query:    input.Query,
			Results:  toNovelSummaries(home.Results),
			Carousel: toNovelSummaries(home.Carousel),
			Featured: toNovelSummaries(home.Featured),
			Newest:   toNovelSummaries(home.Newest),
			Finished: toNovelSummaries(home.Finished),
		},
	}, nil
}

func (s *Server) handleSearchNovels(ctx context.Context, input *QueryInput) (*NovelListOutput, error) {
	novels, err := s.services.Catalog.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &NovelListOutput{
		Body: NovelListResponse{
			Query:  input.Query,
			Total:  len(novels),
			Novels: toNovelSummaries(novels),
		},
	}, nil
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	return &CategoriesOutput{Body: CategoriesResponse{Genres: s.services.Catalog.Genres()}}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *CategoryInput) (*CategoryOutput, error) {
	result, err := s.services.Catalog.Category(ctx, service.CategoryRequest{
		Genre:  input.Genre,
		Status: input.Status,
		Sort:   input.Sort,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{
		Body: CategoryResponse{
			Genre:  result.Genre,
			Status: result.Status,
			Sort:   string(result.Sort),
			Novels: toNovelSummaries(result.Novels),
		},
	}, nil
}

func (s *Server) handleRanking(ctx context.Context, _ *struct{}) (*RankingOutput, error) {
	ranking, err := s.services.Catalog.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	return &RankingOutput{
		Body: RankingResponse{
			Votes:     toNovelSummaries(ranking.Votes),
			Favorites: toNovelSummaries(ranking.Favorites),
			Views:     toNovelSummaries(ranking.Views),
			Newest:    toNovelSummaries(ranking.Newest),
		},
	}, nil
}
