package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/catalog"
	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/storetest"
)

func novelIDs(novels []domain.Novel) []int {
	out := make([]int, 0, len(novels))
	for _, n := range novels {
		out = append(out, n.ID)
	}
	return out
}

func TestCatalogService_Search(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Novels: storetest.SampleNovels()})
	ctx := context.Background()

	all, err := svc.catalog.Search(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, novelIDs(all))

	byAuthor, err := svc.catalog.Search(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, novelIDs(byAuthor))
}

func TestCatalogService_Home(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Novels: storetest.SampleNovels()})

	home, err := svc.catalog.Home(context.Background(), "S")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, novelIDs(home.Carousel))
	assert.Equal(t, []int{1}, novelIDs(home.Finished))
}

func TestCatalogService_Category(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Novels: storetest.SampleNovels()})
	ctx := context.Background()

	bySlug, err := svc.catalog.Category(ctx, CategoryRequest{Genre: "xuanhuan"})
	require.NoError(t, err)
	assert.Equal(t, "玄幻", bySlug.Genre.Name)
	assert.Equal(t, domain.StatusAll, bySlug.Status)
	assert.Equal(t, catalog.SortPopularity, bySlug.Sort)
	assert.Equal(t, []int{2, 1}, novelIDs(bySlug.Novels))

	byName, err := svc.catalog.Category(ctx, CategoryRequest{Genre: "玄幻", Status: "completed", Sort: "votes"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, novelIDs(byName.Novels))

	legacyAll, err := svc.catalog.Category(ctx, CategoryRequest{Genre: "xuanhuan", Status: "全部"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAll, legacyAll.Status)
	assert.Equal(t, []int{2, 1}, novelIDs(legacyAll.Novels))

	unknown, err := svc.catalog.Category(ctx, CategoryRequest{Genre: "romance"})
	require.NoError(t, err)
	assert.Empty(t, unknown.Novels)
}

func TestCatalogService_Ranking(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{Novels: storetest.SampleNovels()})

	ranking, err := svc.catalog.Ranking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, novelIDs(ranking.Views))
	assert.Equal(t, []int{1, 2, 3}, novelIDs(ranking.Votes))
	assert.Equal(t, []int{3, 1, 2}, novelIDs(ranking.Favorites))
	assert.Equal(t, []int{3, 2, 1}, novelIDs(ranking.Newest))
}

func TestCatalogService_Genres(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})

	genres := svc.catalog.Genres()
	require.Len(t, genres, len(domain.Genres))
	genres[0].Name = "changed"
	assert.Equal(t, "玄幻", domain.Genres[0].Name)
}

func TestCatalogService_MissingDocumentIsStorageError(t *testing.T) {
	svc := setupServices(t, storetest.Fixture{})
	require.NoError(t, os.Remove(svc.backend.Path(store.KindNovels)))

	_, err := svc.catalog.Ranking(context.Background())
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeStorage, domainerrors.CodeOf(err))
}
