package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/inovelapp/inovel-server/internal/domain"
)

// Limits for a single search page.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortViews     = "views"
	SortVotes     = "votes"
	SortUpdated   = "updated"
)

// Params configures a search query.
type Params struct {
	Query string

	// Filters
	Genre  string // genre slug or display name
	Status string // ongoing, completed or a legacy label; empty or "all" means any

	// Pagination
	Limit  int
	Offset int

	SortBy string

	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         DefaultLimit,
		SortBy:        SortRelevance,
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result holds one page of hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitzero"`
}

// Hit is a single matching novel.
type Hit struct {
	NovelID    int               `json:"novel_id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author"`
	Genre      string            `json:"genre"`
	Status     string            `json:"status"`
	Views      int               `json:"views"`
	Votes      int               `json:"votes"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts over the full result set.
type Facets struct {
	Genres   []FacetCount `json:"genres,omitempty"`
	Statuses []FacetCount `json:"statuses,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	params = normalizeParams(params)

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("genre", bleve.NewFacetRequest("genre", 20))
		searchRequest.AddFacet("status", bleve.NewFacetRequest("status", 5))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{"novel_id", "title", "author", "genre", "status", "views", "votes"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{Score: hit.Score}

		if id, ok := ParseDocID(hit.ID); ok {
			h.NovelID = id
		}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		if g, ok := hit.Fields["genre"].(string); ok {
			h.Genre = g
		}
		if st, ok := hit.Fields["status"].(string); ok {
			h.Status = st
		}
		if v, ok := hit.Fields["views"].(float64); ok {
			h.Views = int(v)
		}
		if v, ok := hit.Fields["votes"].(float64); ok {
			h.Votes = int(v)
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

func normalizeParams(params Params) Params {
	params.Query = strings.TrimSpace(params.Query)
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}

// buildQuery constructs the Bleve query from params. Text clauses are
// OR-ed together; filters are AND-ed onto the text query.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		introMatch := bleve.NewMatchQuery(params.Query)
		introMatch.SetField("intro")

		chapterMatch := bleve.NewMatchQuery(params.Query)
		chapterMatch.SetField("chapter_titles")
		chapterMatch.SetBoost(0.5)

		textQueries := []query.Query{titleMatch, authorMatch, introMatch, chapterMatch}

		// Typo tolerance on single Latin words.
		if !strings.ContainsRune(params.Query, ' ') && utf8.RuneCountInString(params.Query) >= 4 {
			fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(params.Query))
			fuzzyQuery.SetFuzziness(1)
			fuzzyQuery.SetField("title")
			fuzzyQuery.SetBoost(0.8)
			textQueries = append(textQueries, fuzzyQuery)
		}

		// Prefix query for autocomplete
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Genre != "" {
		genre := params.Genre
		if g, ok := domain.LookupGenre(params.Genre); ok {
			genre = g.Name
		}
		gq := bleve.NewTermQuery(genre)
		gq.SetField("genre")
		queries = append(queries, gq)
	}

	if !domain.IsAllStatuses(params.Status) {
		sq := bleve.NewTermQuery(string(domain.ParseStatus(params.Status)))
		sq.SetField("status")
		queries = append(queries, sq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case SortViews:
		req.SortBy([]string{"-views", "novel_id"})
	case SortVotes:
		req.SortBy([]string{"-votes", "novel_id"})
	case SortUpdated:
		req.SortBy([]string{"-update_time", "novel_id"})
	default:
		if params.Query == "" {
			req.SortBy([]string{"novel_id"})
			return
		}
		req.SortBy([]string{"-_score", "novel_id"})
	}
}

func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if genreFacet, ok := result.Facets["genre"]; ok && genreFacet.Terms != nil {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	if statusFacet, ok := result.Facets["status"]; ok && statusFacet.Terms != nil {
		for _, term := range statusFacet.Terms.Terms() {
			facets.Statuses = append(facets.Statuses, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}
