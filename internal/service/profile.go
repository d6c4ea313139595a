package service

import (
	"context"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
)

// UnknownNovelTitle stands in for the title of a novel that no longer exists.
const UnknownNovelTitle = "未知"

// ProfileService assembles a reader's profile page.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// Profile is a reader's own page.
type Profile struct {
	User UserSummary
	// FavoriteNovels and RecentNovels resolve the user's id lists against
	// the catalog, keeping their order and skipping ids that no longer exist.
	FavoriteNovels []domain.Novel
	RecentNovels   []domain.Novel
	Comments       []ProfileComment
}

// ProfileComment is one of the reader's comments with the novel it is on.
type ProfileComment struct {
	domain.Comment
	NovelTitle string
}

// Get returns the session user's profile.
func (s *ProfileService) Get(ctx context.Context, session domain.Session) (*Profile, error) {
	if !session.Authenticated() {
		return nil, errLoginRequired
	}

	users, err := s.store.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, err := store.FindUserIn(users, session.UserID)
	if err != nil {
		return nil, err
	}

	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*domain.Novel, len(novels))
	for i := range novels {
		if _, dup := byID[novels[i].ID]; !dup {
			byID[novels[i].ID] = &novels[i]
		}
	}

	comments, err := s.store.Comments.Load(ctx)
	if err != nil {
		return nil, err
	}
	mine := selectComments(comments, func(c *domain.Comment) bool {
		return c.Username == user.Username
	})

	profile := &Profile{
		User:           summarizeUser(user),
		FavoriteNovels: resolveNovels(byID, user.Favorites),
		RecentNovels:   resolveNovels(byID, user.RecentRead),
		Comments:       make([]ProfileComment, 0, len(mine)),
	}
	for _, c := range mine {
		title := UnknownNovelTitle
		if n, ok := byID[c.NovelID]; ok {
			title = n.Title
		}
		profile.Comments = append(profile.Comments, ProfileComment{Comment: c, NovelTitle: title})
	}

	return profile, nil
}

func resolveNovels(byID map[int]*domain.Novel, ids []int) []domain.Novel {
	out := make([]domain.Novel, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, *n)
		}
	}
	return out
}
