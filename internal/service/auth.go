package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/id"
	"github.com/inovelapp/inovel-server/internal/store"
)

// invalidCredentialsMessage is shared by the unknown-user and wrong-password
// paths so a caller cannot tell them apart.
const invalidCredentialsMessage = "invalid username or password"

// AuthService handles registration, login and logout.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	sessionService *SessionService
	logger         *slog.Logger

	hashParams auth.Params

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, sessionService *SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:          store,
		sessionService: sessionService,
		logger:         logger,
		hashParams:     auth.DefaultParams,
	}
}

// WithHashParams overrides the argon2id cost used for new hashes.
func (s *AuthService) WithHashParams(p auth.Params) *AuthService {
	s.hashParams = p
	return s
}

// RegisterRequest contains the registration form.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,username,max=64"`
	Password string `json:"password" validate:"required,maxbytes=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,maxbytes=1024"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	User UserSummary `json:"user"`
	SessionResponse
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Favorites  []int  `json:"favorites"`
	RecentRead []int  `json:"recent_read"`
}

func summarizeUser(u *domain.User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		Favorites:  append([]int{}, u.Favorites...),
		RecentRead: append([]int{}, u.RecentRead...),
	}
}

// Register creates a user. The username is trimmed and must not already
// exist (exact, case-sensitive match).
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserSummary, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Hash outside the users lock; argon2id is deliberately slow.
	passwordHash, err := auth.HashPasswordWith(s.hashParams, req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created domain.User
	err = s.store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		if _, exists := store.FindUserByName(users, req.Username); exists {
			return nil, domainerrors.Conflict("username already exists")
		}

		created = domain.User{
			ID:           id.Next(users, func(u domain.User) int { return u.ID }),
			Username:     req.Username,
			PasswordHash: passwordHash,
			Favorites:    []int{},
			RecentRead:   []int{},
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		"user_id", created.ID,
		"username", created.Username,
	)

	summary := summarizeUser(&created)
	return &summary, nil
}

// Login verifies credentials and starts a session.
// A legacy plaintext password is replaced by a hash on success.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	users, err := s.store.Users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := store.FindUserByName(users, req.Username)
	if !ok {
		// Spend the same work as a real verification.
		auth.VerifyPassword(s.placeholderHash(), req.Password)
		return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
	}

	switch {
	case user.PasswordHash != "":
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
		}
		if auth.NeedsRehash(user.PasswordHash) && s.hashParams == auth.DefaultParams {
			s.upgradePassword(ctx, user.ID, req.Password)
		}
	case auth.VerifyLegacyPassword(user.LegacyPassword, req.Password):
		s.upgradePassword(ctx, user.ID, req.Password)
	default:
		return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
	}

	sessionResp, err := s.sessionService.CreateSession(user)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("User logged in",
		"user_id", user.ID,
		"username", user.Username,
		"session_id", sessionResp.Session.ID,
	)

	return &AuthResponse{
		User:            summarizeUser(user),
		SessionResponse: *sessionResp,
	}, nil
}

// Logout ends the session. Logging out an anonymous or already ended
// session is not an error.
func (s *AuthService) Logout(_ context.Context, session domain.Session) error {
	if session.ID == "" {
		return nil
	}

	if s.sessionService.DeleteSession(session.ID) {
		s.logger.Info("User logged out",
			"user_id", session.UserID,
			"session_id", session.ID,
		)
	}
	return nil
}

// upgradePassword stores a fresh hash for the user. Failure only costs the
// upgrade, so it is logged rather than failing the login.
func (s *AuthService) upgradePassword(ctx context.Context, userID int, password string) {
	hash, err := auth.HashPasswordWith(s.hashParams, password)
	if err != nil {
		s.logger.Warn("failed to hash password for upgrade", "user_id", userID, "error", err)
		return
	}

	err = s.store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		u, err := store.FindUserIn(users, userID)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
		u.LegacyPassword = ""
		return users, nil
	})
	if err != nil {
		s.logger.Warn("failed to upgrade stored password", "user_id", userID, "error", err)
		return
	}

	s.logger.Info("Upgraded stored password hash", "user_id", userID)
}

// placeholderHash is verified against when the username is unknown.
func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPasswordWith(s.hashParams, "placeholder-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// HashLegacyPasswords replaces every plaintext password in the users
// collection with an argon2id hash and returns how many were converted.
func (s *AuthService) HashLegacyPasswords(ctx context.Context) (int, error) {
	converted := 0
	err := s.store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			u := &users[i]
			if u.LegacyPassword == "" {
				continue
			}
			hash, err := auth.HashPasswordWith(s.hashParams, u.LegacyPassword)
			if err != nil {
				return nil, fmt.Errorf("hash password for user %d: %w", u.ID, err)
			}
			u.PasswordHash = hash
			u.LegacyPassword = ""
			converted++
		}
		return users, nil
	})
	if err != nil {
		return 0, err
	}

	if converted > 0 {
		s.logger.Info("Hashed legacy passwords", "count", converted)
	}
	return converted, nil
}
