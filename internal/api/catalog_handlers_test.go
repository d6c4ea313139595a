package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryIDs(novels []NovelSummary) []int {
	ids := make([]int, 0, len(novels))
	for _, n := range novels {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestHome(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	resp := ts.api.Get("/api/v1/home")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	home := decode[HomeResponse](t, resp).Data
	assert.Equal(t, []int{1, 2}, summaryIDs(home.Results))
	assert.Equal(t, []int{2, 1}, summaryIDs(home.Carousel))
	assert.Equal(t, []int{1, 2}, summaryIDs(home.Featured))
	assert.Equal(t, []int{2, 1}, summaryIDs(home.Newest))
	assert.Equal(t, []int{1}, summaryIDs(home.Finished))
}

func TestHome_QueryFiltersShelves(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	home := decode[HomeResponse](t, ts.api.Get("/api/v1/home?q=Sea")).Data
	assert.Equal(t, "Sea", home.Query)
	assert.Equal(t, []int{2}, summaryIDs(home.Results))
	assert.Equal(t, []int{2}, summaryIDs(home.Carousel))
	assert.Empty(t, home.Finished)
	assert.NotNil(t, home.Finished)
}

func TestSearchNovels(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	tests := []struct {
		query string
		want  []int
	}{
		{query: "", want: []int{1, 2}},
		{query: "S", want: []int{1, 2}},
		{query: "ky", want: []int{1}},
		{query: "B", want: []int{2}},
		{query: "sky", want: []int{}}, // case-sensitive
	}

	for _, tt := range tests {
		resp := ts.api.Get("/api/v1/novels?q=" + url.QueryEscape(tt.query))
		require.Equal(t, http.StatusOK, resp.Code)

		list := decode[NovelListResponse](t, resp).Data
		assert.Equal(t, tt.want, summaryIDs(list.Novels), tt.query)
		assert.Equal(t, len(tt.want), list.Total)
	}
}

func TestSearchNovels_SummaryFields(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	list := decode[NovelListResponse](t, ts.api.Get("/api/v1/novels?q=Sky")).Data
	require.Len(t, list.Novels, 1)

	sky := list.Novels[0]
	assert.Equal(t, "completed", sky.Status)
	assert.Equal(t, "完本", sky.StatusLabel)
	assert.Equal(t, 2, sky.ChapterCount)
	assert.Equal(t, "2024-03-01 10:00", sky.UpdateTime)
}

func TestListCategories(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	resp := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, resp.Code)

	genres := decode[CategoriesResponse](t, resp).Data.Genres
	require.Len(t, genres, 9)
	assert.Equal(t, "xuanhuan", genres[0].Slug)
	assert.Equal(t, "玄幻", genres[0].Name)
}

func TestGetCategory(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	tests := []struct {
		name string
		path string
		want []int
	}{
		{name: "slug defaults to popularity", path: "/api/v1/categories/xuanhuan", want: []int{2, 1}},
		{name: "completed only", path: "/api/v1/categories/xuanhuan?status=completed", want: []int{1}},
		{name: "legacy status label", path: "/api/v1/categories/xuanhuan?status=" + url.QueryEscape("连载"), want: []int{2}},
		{name: "legacy all label", path: "/api/v1/categories/xuanhuan?status=" + url.QueryEscape("全部"), want: []int{2, 1}},
		{name: "by votes", path: "/api/v1/categories/xuanhuan?sort=votes", want: []int{1, 2}},
		{name: "by update", path: "/api/v1/categories/xuanhuan?sort=update", want: []int{2, 1}},
		{name: "stored name", path: "/api/v1/categories/" + url.PathEscape("玄幻") + "?status=all", want: []int{2, 1}},
		{name: "empty genre", path: "/api/v1/categories/wuxia", want: []int{}},
		{name: "unknown genre", path: "/api/v1/categories/romance", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.want, summaryIDs(decode[CategoryResponse](t, resp).Data.Novels))
		})
	}
}

func TestGetCategory_EchoesSelection(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	category := decode[CategoryResponse](t, ts.api.Get("/api/v1/categories/xuanhuan")).Data
	assert.Equal(t, "玄幻", category.Genre.Name)
	assert.Equal(t, "all", category.Status)
	assert.Equal(t, "popularity", category.Sort)
}

func TestRanking(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	resp := ts.api.Get("/api/v1/ranking")
	require.Equal(t, http.StatusOK, resp.Code)

	ranking := decode[RankingResponse](t, resp).Data
	assert.Equal(t, []int{2, 1}, summaryIDs(ranking.Views))
	assert.Equal(t, []int{1, 2}, summaryIDs(ranking.Votes))
	assert.Equal(t, []int{2, 1}, summaryIDs(ranking.Newest))
	assert.Len(t, ranking.Favorites, 2)
}
