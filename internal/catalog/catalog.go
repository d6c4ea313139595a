// Package catalog derives the browsing views of the novel collection:
// substring search, the home page shelves, category listings, and rankings.
//
// Every function is pure. Inputs are never modified and results are fresh
// slices. All orderings are descending on their key and stable, so novels
// with equal keys keep their collection order.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/inovelapp/inovel-server/internal/domain"
)

// Home page shelf sizes.
const (
	CarouselSize = 3
	FeaturedSize = 6
	NewestSize   = 6
	FinishedSize = 6
)

// RankingSize caps every ranking list.
const RankingSize = 50

// SortKey selects the ordering of a category listing.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortUpdate     SortKey = "update"
	SortFavorites  SortKey = "favorites"
	SortVotes      SortKey = "votes"
)

// legacySortKeys maps the labels used by older clients.
var legacySortKeys = map[string]SortKey{
	"人气": SortPopularity,
	"更新": SortUpdate,
	"收藏": SortFavorites,
	"月票": SortVotes,
}

// ParseSortKey resolves a sort key or legacy label. An empty value selects
// SortPopularity; anything unrecognized is returned unchanged and leaves the
// listing in collection order.
func ParseSortKey(raw string) SortKey {
	if raw == "" {
		return SortPopularity
	}
	if key, ok := legacySortKeys[raw]; ok {
		return key
	}
	return SortKey(raw)
}

// Search returns the novels whose title or author contains query. Matching
// is case-sensitive. A blank query returns the whole catalog in order.
func Search(novels []domain.Novel, query string) []domain.Novel {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(novels)
	}
	out := []domain.Novel{}
	for _, n := range novels {
		if strings.Contains(n.Title, query) || strings.Contains(n.Author, query) {
			out = append(out, n)
		}
	}
	return out
}

// HomeView holds the shelves of the landing page.
type HomeView struct {
	Results  []domain.Novel
	Carousel []domain.Novel
	Featured []domain.Novel
	Newest   []domain.Novel
	Finished []domain.Novel
}

// Home builds the landing page shelves from the novels matching query.
func Home(novels []domain.Novel, query string) HomeView {
	results := Search(novels, query)

	var finished []domain.Novel
	for _, n := range results {
		if len(finished) == FinishedSize {
			break
		}
		if n.IsCompleted() {
			finished = append(finished, n)
		}
	}

	return HomeView{
		Results:  results,
		Carousel: topBy(results, byViews, CarouselSize),
		Featured: topBy(results, byVotes, FeaturedSize),
		Newest:   topBy(results, byID, NewestSize),
		Finished: finished,
	}
}

// CategoryQuery filters and orders one genre.
type CategoryQuery struct {
	// Genre is compared with the stored genre exactly.
	Genre string
	// Status filters by publication state; see domain.IsAllStatuses for the
	// values that disable it. Legacy labels are accepted.
	Status string
	Sort   SortKey
}

// Category lists the novels of one genre.
func Category(novels []domain.Novel, q CategoryQuery) []domain.Novel {
	out := []domain.Novel{}
	for _, n := range novels {
		if n.Genre != q.Genre {
			continue
		}
		if !domain.IsAllStatuses(q.Status) && n.Status != domain.ParseStatus(q.Status) {
			continue
		}
		out = append(out, n)
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = SortPopularity
	}
	if less, ok := sortFuncs[sortKey]; ok {
		slices.SortStableFunc(out, less)
	}
	return out
}

// RankingView holds the four leaderboards.
type RankingView struct {
	Votes     []domain.Novel
	Favorites []domain.Novel
	Views     []domain.Novel
	Newest    []domain.Novel
}

// Ranking builds the leaderboards over the whole catalog.
func Ranking(novels []domain.Novel) RankingView {
	return RankingView{
		Votes:     topBy(novels, byVotes, RankingSize),
		Favorites: topBy(novels, byFavorites, RankingSize),
		Views:     topBy(novels, byViews, RankingSize),
		Newest:    topBy(novels, byID, RankingSize),
	}
}

type compareFunc func(a, b domain.Novel) int

func byViews(a, b domain.Novel) int     { return cmp.Compare(b.Views, a.Views) }
func byVotes(a, b domain.Novel) int     { return cmp.Compare(b.Votes, a.Votes) }
func byFavorites(a, b domain.Novel) int { return cmp.Compare(b.Favorites, a.Favorites) }
func byID(a, b domain.Novel) int        { return cmp.Compare(b.ID, a.ID) }
func byUpdate(a, b domain.Novel) int    { return cmp.Compare(b.UpdateTime, a.UpdateTime) }

var sortFuncs = map[SortKey]compareFunc{
	SortPopularity: byViews,
	SortUpdate:     byUpdate,
	SortFavorites:  byFavorites,
	SortVotes:      byVotes,
}

func topBy(novels []domain.Novel, compare compareFunc, limit int) []domain.Novel {
	sorted := slices.Clone(novels)
	slices.SortStableFunc(sorted, compare)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
