package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/service"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/toggle",
		Summary:     "Toggle favorite",
		Description: "Adds the novel to the reader's favorites, or removes it if already there. Requires login.",
		Tags:        []string{"Favorites"},
		Security:    requireLogin,
	}, s.handleToggleFavorite)
}

// ToggleFavoriteRequest is the request body for a favorite toggle.
type ToggleFavoriteRequest struct {
	NovelID int `json:"novel_id" minimum:"1" doc:"Novel ID"`
}

// ToggleFavoriteInput wraps the toggle request for Huma.
type ToggleFavoriteInput struct {
	Body ToggleFavoriteRequest
}

// ToggleFavoriteOutput wraps the toggle result for Huma.
type ToggleFavoriteOutput struct {
	Body service.FavoriteResult
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	result, err := s.services.Favorite.Toggle(ctx, sessionFromContext(ctx), input.Body.NovelID)
	if err != nil {
		return nil, err
	}
	return &ToggleFavoriteOutput{Body: *result}, nil
}
