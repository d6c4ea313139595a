// Package storetest builds stores over temporary data directories for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/jsonfile"
)

// Fixture seeds a store. Nil collections are written as empty documents.
type Fixture struct {
	Novels   []domain.Novel
	Users    []domain.User
	Comments []domain.Comment
}

// New returns a JSON-file store in a temporary directory seeded with f.
func New(t testing.TB, f Fixture) (*store.Store, *jsonfile.Backend) {
	t.Helper()

	backend, err := jsonfile.Open(t.TempDir(), nil)
	require.NoError(t, err)

	s := store.New(backend, nil)
	ctx := context.Background()
	require.NoError(t, s.Novels.Save(ctx, f.Novels))
	require.NoError(t, s.Users.Save(ctx, f.Users))
	require.NoError(t, s.Comments.Save(ctx, f.Comments))

	t.Cleanup(func() { _ = s.Close() })
	return s, backend
}

// SampleNovels returns a small catalog with chapters, covering both statuses
// and several genres.
func SampleNovels() []domain.Novel {
	return []domain.Novel{
		{
			ID: 1, Title: "Sky", Author: "A", Genre: "玄幻", Status: domain.StatusCompleted,
			Views: 10, Favorites: 4, Votes: 5, UpdateTime: "2024-03-01 10:00",
			Chapters: []domain.Chapter{
				{ID: 1, Title: "Dawn", Content: "<p>The <strong>sky</strong> opened.</p>"},
				{ID: 2, Title: "Noon", Content: "<p>Light everywhere.</p>"},
			},
		},
		{
			ID: 2, Title: "Sea", Author: "B", Genre: "玄幻", Status: domain.StatusOngoing,
			Views: 20, Favorites: 2, Votes: 1, UpdateTime: "2024-03-05 09:00",
			Chapters: []domain.Chapter{{ID: 1, Title: "Tide", Content: "<p>Waves.</p>"}},
		},
		{
			ID: 3, Title: "Sword Song", Author: "A", Genre: "武侠", Status: domain.StatusOngoing,
			Views: 15, Favorites: 9, UpdateTime: "2024-02-20 18:30",
			Chapters: []domain.Chapter{{ID: 1, Title: "Steel", Content: "<p>Clash.</p>"}},
		},
	}
}

// MustLoad loads a collection and fails the test on error.
func MustLoad[T any](t testing.TB, c *store.Collection[T]) []T {
	t.Helper()
	items, err := c.Load(context.Background())
	require.NoError(t, err)
	return items
}
