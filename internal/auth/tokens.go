package auth

import (
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/inovelapp/inovel-server/internal/id"
)

const (
	tokenIssuer   = "inovel-server"
	tokenAudience = "inovel-reader"
)

// SessionClaims are the encrypted contents of a session token.
type SessionClaims struct {
	SessionID  string    `json:"jti"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	IssuedAt   time.Time `json:"iat"`
	NotBefore  time.Time `json:"nbf"`
	Expiration time.Time `json:"exp"`
}

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service for a 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("session key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	symmetric, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}
	return &TokenService{key: symmetric, duration: duration, now: time.Now}, nil
}

// Issue creates a token for the user. The session id doubles as the token id
// so that a logout can revoke exactly this token.
func (s *TokenService) Issue(userID int, username string) (string, *SessionClaims, error) {
	sessionID, err := id.Generate("sess")
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now()
	claims := &SessionClaims{
		SessionID:  sessionID,
		UserID:     userID,
		Username:   username,
		Issuer:     tokenIssuer,
		Audience:   tokenAudience,
		IssuedAt:   now,
		NotBefore:  now,
		Expiration: now.Add(s.duration),
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(fmt.Sprint(userID))
	token.SetJti(sessionID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(claims.Expiration)
	//nolint:errcheck // Set only fails for values that cannot be JSON encoded
	_ = token.Set("user_id", userID)
	//nolint:errcheck // Set only fails for values that cannot be JSON encoded
	_ = token.Set("username", username)

	return token.V4Encrypt(s.key, nil), claims, nil
}

// Verify decrypts a token and checks issuer, audience, and validity window.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.SessionID == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token: missing session claims")
	}
	return &claims, nil
}

// Duration returns the configured session lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
