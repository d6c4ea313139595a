package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/search"
)

func hitIDs(result search.Result) []int {
	ids := make([]int, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.NovelID)
	}
	return ids
}

func TestSearch_Disabled(t *testing.T) {
	ts := setupTestServer(t, skyAndSea())

	resp := ts.api.Get("/api/v1/search?q=sky")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	envelope := decode[any](t, resp)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAVAILABLE", envelope.Error.Code)
}

func TestSearch(t *testing.T) {
	ts := setupTestServerWith(t, skyAndSea(), serverOptions{loginRate: 600, search: true})

	resp := ts.api.Get("/api/v1/search?q=sky")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[search.Result](t, resp).Data
	assert.Equal(t, "sky", result.Query)
	assert.Equal(t, []int{1}, hitIDs(result))
}

func TestSearch_FiltersAndSort(t *testing.T) {
	ts := setupTestServerWith(t, skyAndSea(), serverOptions{loginRate: 600, search: true})

	tests := []struct {
		name  string
		query url.Values
		want  []int
	}{
		{name: "all by views", query: url.Values{"sort": {"views"}}, want: []int{2, 1}},
		{name: "all by votes", query: url.Values{"sort": {"votes"}}, want: []int{1, 2}},
		{name: "genre slug and status", query: url.Values{"genre": {"xuanhuan"}, "status": {"ongoing"}}, want: []int{2}},
		{name: "other genre", query: url.Values{"genre": {"wuxia"}}, want: []int{}},
		{name: "page size", query: url.Values{"limit": {"1"}, "offset": {"1"}}, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/search?" + tt.query.Encode())
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.want, hitIDs(decode[search.Result](t, resp).Data))
		})
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	ts := setupTestServerWith(t, skyAndSea(), serverOptions{loginRate: 600, search: true})

	for _, q := range []string{"limit=500", "sort=random", "offset=-1"} {
		resp := ts.api.Get("/api/v1/search?" + q)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, q)
	}
}
