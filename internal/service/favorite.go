package service

import (
	"context"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
)

// FavoriteService toggles novels in a reader's favorites.
type FavoriteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(store *store.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{store: store, logger: logger}
}

// FavoriteResult is the state after a toggle.
type FavoriteResult struct {
	NovelID   int   `json:"novel_id"`
	Favorited bool  `json:"favorited"`
	Favorites []int `json:"favorites"`
}

// Toggle adds novelID to the session user's favorites, or removes it if it
// is already there. The novel itself is not looked up.
func (s *FavoriteService) Toggle(ctx context.Context, session domain.Session, novelID int) (*FavoriteResult, error) {
	if !session.Authenticated() {
		return nil, errLoginRequired
	}

	result := &FavoriteResult{NovelID: novelID}
	err := s.store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		user, err := store.FindUserIn(users, session.UserID)
		if err != nil {
			return nil, err
		}
		result.Favorited = user.ToggleFavorite(novelID)
		result.Favorites = append([]int{}, user.Favorites...)
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("favorite toggled",
		"user_id", session.UserID,
		"novel_id", novelID,
		"favorited", result.Favorited,
	)
	return result, nil
}
