package service

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/jsonfile"
	"github.com/inovelapp/inovel-server/internal/store/storetest"
)

// cheapParams keeps password hashing fast in tests.
var cheapParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

var fixedNow = time.Date(2024, 5, 1, 21, 7, 42, 0, time.Local)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testServices holds every service over one temporary store.
type testServices struct {
	store    *store.Store
	backend  *jsonfile.Backend
	sessions *SessionService
	auth     *AuthService
	catalog  *CatalogService
	reading  *ReadingService
	favorite *FavoriteService
	comments *CommentService
	profile  *ProfileService
}

func setupServices(t *testing.T, f storetest.Fixture) *testServices {
	t.Helper()

	s, backend := storetest.New(t, f)
	logger := testLogger()

	tokens, err := auth.NewTokenService([]byte(strings.Repeat("k", 32)), time.Hour)
	require.NoError(t, err)
	sessions := NewSessionService(tokens, logger)

	return &testServices{
		store:    s,
		backend:  backend,
		sessions: sessions,
		auth:     NewAuthService(s, sessions, logger).WithHashParams(cheapParams),
		catalog:  NewCatalogService(s, logger),
		reading:  NewReadingService(s, logger),
		favorite: NewFavoriteService(s, logger),
		comments: NewCommentService(s, logger).WithClock(func() time.Time { return fixedNow }),
		profile:  NewProfileService(s, logger),
	}
}

func sessionFor(u domain.User) domain.Session {
	return domain.Session{ID: "sess-test", LoggedIn: true, UserID: u.ID, Username: u.Username}
}

func testUser(id int, name string) domain.User {
	return domain.User{ID: id, Username: name, Favorites: []int{}, RecentRead: []int{}}
}

func intPtr(v int) *int { return &v }
