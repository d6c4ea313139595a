// Package api provides the HTTP API server and handlers for the iNovel
// reading site.
package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// defaultLoginBurst is the burst allowed on the auth routes.
const defaultLoginBurst = 5

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	authRateLimiter *RateLimiter
	cookieSecure    bool
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		logger:          logger,
		authRateLimiter: NewRateLimiter(cfg.Server.LoginRatePerMinute, defaultLoginBurst),
		cookieSecure:    cfg.Auth.CookieSecure,
	}

	s.setupMiddleware(cfg.Server.CORSOrigins)

	humaConfig := huma.DefaultConfig("iNovel API", Version)
	humaConfig.Info.Description = "Catalog, reading, favorites and comments of the iNovel reading site."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
		"cookie": {
			Type: "apiKey",
			In:   "cookie",
			Name: SessionCookieName,
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerNovelRoutes()
	s.registerFavoriteRoutes()
	s.registerCommentRoutes()
	s.registerProfileRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	if len(origins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Retry-After"},
			AllowCredentials: !slices.Contains(origins, "*"),
			MaxAge:           300,
		}))
	}

	s.router.Use(sessionMiddleware(s.services.Sessions))
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// requireLogin is the OpenAPI security requirement of session-only routes.
var requireLogin = []map[string][]string{{"bearer": {}}, {"cookie": {}}}
