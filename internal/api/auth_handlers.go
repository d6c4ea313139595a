package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	limit := huma.Middlewares{RateLimitMiddleware(s.api, s.authRateLimiter, s.logger)}

	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register new user",
		Description:   "Creates a reader account. Usernames are case-sensitive and must be unique.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   limit,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user, returns a session token and sets the session cookie",
		Tags:        []string{"Authentication"},
		Middlewares: limit,
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Ends the current session and clears the session cookie",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// CredentialsRequest is the request body for registration and login.
type CredentialsRequest struct {
	Username string `json:"username" minLength:"1" maxLength:"64" doc:"Username"`
	Password string `json:"password" minLength:"1" maxLength:"1024" doc:"Password"`
}

// CredentialsInput wraps the credentials for Huma.
type CredentialsInput struct {
	Body CredentialsRequest
}

// UserOutput wraps a user summary for Huma.
type UserOutput struct {
	Body service.UserSummary
}

// LoginResponse is the response body of a successful login.
type LoginResponse struct {
	Token     string              `json:"token" doc:"Session token for the Authorization header"`
	ExpiresAt string              `json:"expires_at" doc:"Session expiry (RFC 3339)"`
	User      service.UserSummary `json:"user" doc:"Logged-in user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      LoginResponse
}

// LogoutResponse is the response body of logout.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out" doc:"Whether a session was ended"`
}

// LogoutOutput wraps the logout response for Huma.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      LogoutResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *CredentialsInput) (*UserOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *CredentialsInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SetCookie: sessionCookie(resp.Token, resp.ExpiresAt, s.cookieSecure),
		Body: LoginResponse{
			Token:     resp.Token,
			ExpiresAt: resp.ExpiresAt.UTC().Format(timeLayout),
			User:      resp.User,
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	session := sessionFromContext(ctx)
	if err := s.services.Auth.Logout(ctx, session); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: clearedSessionCookie(s.cookieSecure),
		Body:      LogoutResponse{LoggedOut: session.Authenticated()},
	}, nil
}
