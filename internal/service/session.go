package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
)

// SessionService issues session tokens and tracks which sessions are live.
//
// The live set is held in memory only: a restart logs every reader out,
// exactly like the cookie sessions this replaces.
type SessionService struct {
	tokenService *auth.TokenService
	logger       *slog.Logger

	mu   sync.RWMutex
	live map[string]time.Time // session id -> expiry
	now  func() time.Time
}

// NewSessionService creates a new session management service.
func NewSessionService(tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		tokenService: tokenService,
		logger:       logger,
		live:         make(map[string]time.Time),
		now:          time.Now,
	}
}

// SessionResponse is a freshly issued session.
type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Session   domain.Session `json:"session"`
}

// CreateSession issues a token for user and marks the session live.
func (s *SessionService) CreateSession(user *domain.User) (*SessionResponse, error) {
	token, claims, err := s.tokenService.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.mu.Lock()
	s.live[claims.SessionID] = claims.Expiration
	s.mu.Unlock()

	return &SessionResponse{
		Token:     token,
		ExpiresAt: claims.Expiration,
		Session: domain.Session{
			ID:        claims.SessionID,
			LoggedIn:  true,
			UserID:    user.ID,
			Username:  user.Username,
			ExpiresAt: claims.Expiration,
		},
	}, nil
}

// Resolve maps a token to its session. An empty token is an anonymous
// client. Anything else that is not a live session yields the anonymous
// session together with an Unauthorized error, so callers can either
// reject the request or carry on anonymously.
func (s *SessionService) Resolve(token string) (domain.Session, error) {
	if token == "" {
		return domain.AnonymousSession(), nil
	}

	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return domain.AnonymousSession(), domainerrors.Unauthorized("invalid or expired session").WithCause(err)
	}

	s.mu.RLock()
	expiresAt, ok := s.live[claims.SessionID]
	s.mu.RUnlock()
	if !ok || !s.now().Before(expiresAt) {
		return domain.AnonymousSession(), domainerrors.Unauthorized("session has ended")
	}

	return domain.Session{
		ID:        claims.SessionID,
		LoggedIn:  true,
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresAt: claims.Expiration,
	}, nil
}

// DeleteSession ends a session. It reports whether the session was live.
func (s *SessionService) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live[sessionID]; !ok {
		return false
	}
	delete(s.live, sessionID)
	return true
}

// ActiveSessions returns the number of live sessions.
func (s *SessionService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// CleanupExpired drops expired sessions and returns how many were removed.
func (s *SessionService) CleanupExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, expiresAt := range s.live {
		if !now.Before(expiresAt) {
			delete(s.live, id)
			removed++
		}
	}

	if removed > 0 && s.logger != nil {
		s.logger.Debug("expired sessions removed", "count", removed)
	}
	return removed
}
