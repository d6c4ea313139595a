package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Reader profile",
		Description: "Returns the reader's favorites, recently read novels and comments. Requires login.",
		Tags:        []string{"Profile"},
		Security:    requireLogin,
	}, s.handleGetProfile)
}

// ProfileOutput wraps the profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	profile, err := s.services.Profile.Get(ctx, sessionFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: toProfileResponse(profile)}, nil
}
