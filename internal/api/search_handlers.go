package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "fullTextSearch",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Full-text search",
		Description: "Ranked search over titles, authors, intros and chapter titles with genre and status filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains full-text search parameters.
type SearchInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query"`
	Genre  string `query:"genre" doc:"Genre slug or name"`
	Status string `query:"status" doc:"ongoing, completed or all"`
	Sort   string `query:"sort" enum:"relevance,views,votes,updated" default:"relevance" doc:"Sort order"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset int    `query:"offset" minimum:"0" doc:"Number of hits to skip"`
	Facets bool   `query:"facets" default:"true" doc:"Include genre and status facet counts"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("search is disabled")
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.Genre = input.Genre
	params.Status = input.Status
	params.SortBy = input.Sort
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
