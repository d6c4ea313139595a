package api

import "github.com/inovelapp/inovel-server/internal/service"

// Services groups all business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	Sessions *service.SessionService
	Catalog  *service.CatalogService
	Reading  *service.ReadingService
	Favorite *service.FavoriteService
	Comment  *service.CommentService
	Profile  *service.ProfileService
	Search   *service.SearchService // nil when the search index is disabled
}
