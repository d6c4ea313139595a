package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := Open(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testNovels() []domain.Novel {
	return []domain.Novel{
		{ID: 1, Title: "Sky", Author: "Ann", Genre: "玄幻", Status: domain.StatusCompleted, Views: 10, Votes: 5},
		{ID: 2, Title: "Sea", Author: "Bo", Genre: "玄幻", Status: domain.StatusOngoing, Views: 20, Votes: 1},
		{ID: 3, Title: "Sword Song", Author: "Ann", Genre: "武侠", Status: domain.StatusOngoing, Views: 15},
		{
			ID: 4, Title: "斗破苍穹", Author: "天蚕土豆", Genre: "玄幻", Status: domain.StatusCompleted,
			Views: 99, Intro: "少年萧炎的修炼之路",
			Chapters: []domain.Chapter{{ID: 1, Title: "陨落的天才"}},
		},
	}
}

func hitIDs(r *Result) []int {
	out := make([]int, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, h.NovelID)
	}
	return out
}

func TestOpen_Empty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_IndexNovels(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexNovels(testNovels()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestIndex_DeleteNovel(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	require.NoError(t, index.DeleteNovel(2))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestIndex_Search_Title(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	params := DefaultParams()
	params.Query = "sky"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, 1, result.Hits[0].NovelID)
	assert.Equal(t, "Sky", result.Hits[0].Title)
	assert.Equal(t, "玄幻", result.Hits[0].Genre)
}

func TestIndex_Search_Author(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	params := DefaultParams()
	params.Query = "Ann"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 3}, hitIDs(result))
}

func TestIndex_Search_Chinese(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	for _, q := range []string{"苍穹", "天蚕土豆", "萧炎", "天才"} {
		params := DefaultParams()
		params.Query = q
		result, err := index.Search(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, []int{4}, hitIDs(result), q)
	}
}

func TestIndex_Search_GenreAndStatusFilters(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	params := DefaultParams()
	params.Genre = "xuanhuan"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, hitIDs(result))

	params.Status = "完本"
	result, err = index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, hitIDs(result))

	params.Genre = "武侠"
	params.Status = domain.StatusAll
	result, err = index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, hitIDs(result))
}

func TestIndex_Search_SortByViews(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	params := DefaultParams()
	params.SortBy = SortViews
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2, 3, 1}, hitIDs(result))
	assert.Equal(t, uint64(4), result.Total)
}

func TestIndex_Search_Facets(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	result, err := index.Search(context.Background(), DefaultParams())
	require.NoError(t, err)

	genres := map[string]int{}
	for _, f := range result.Facets.Genres {
		genres[f.Value] = f.Count
	}
	assert.Equal(t, map[string]int{"玄幻": 3, "武侠": 1}, genres)
}

func TestIndex_Search_Pagination(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	params := DefaultParams()
	params.Limit = 2
	params.Offset = 2
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4}, hitIDs(result))
	assert.Equal(t, uint64(4), result.Total)
}

func TestIndex_Replace(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNovels(testNovels()))

	require.NoError(t, index.Replace(testNovels()[:1]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestOpen_Persistence(t *testing.T) {
	dir := t.TempDir()

	index, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexNovels(testNovels()))
	require.NoError(t, index.Close())

	reopened, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestOpen_RebuildsOnMappingVersionChange(t *testing.T) {
	dir := t.TempDir()

	index, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexNovels(testNovels()))
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "search.version"), []byte("0"), 0o644))

	reopened, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNovelToDocument(t *testing.T) {
	doc := NovelToDocument(&testNovels()[3])

	assert.Equal(t, "novel-4", doc.ID)
	assert.Equal(t, "xuanhuan", doc.GenreSlug)
	assert.Equal(t, "completed", doc.Status)
	assert.Equal(t, "陨落的天才", doc.ChapterTitles)

	m := doc.ToMap()
	assert.Equal(t, "斗破苍穹", m["title"])
	assert.NotContains(t, NovelToDocument(&testNovels()[0]).ToMap(), "intro")
}

func TestParseDocID(t *testing.T) {
	id, ok := ParseDocID(DocID(42))
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = ParseDocID("book-1")
	assert.False(t, ok)
	_, ok = ParseDocID("novel-x")
	assert.False(t, ok)
}

func TestNormalizeParams(t *testing.T) {
	p := normalizeParams(Params{Query: "  sky ", Limit: 1000, Offset: -3})
	assert.Equal(t, "sky", p.Query)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	assert.Equal(t, DefaultLimit, normalizeParams(Params{}).Limit)
}
