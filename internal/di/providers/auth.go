package providers

import (
	"github.com/samber/do/v2"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/logger"
)

// AuthKey wraps the session key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the session key kept in the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	cfg.Auth.SessionKey = key

	log.Info("Session key loaded",
		"session_duration", cfg.Auth.SessionDuration,
		"cookie_secure", cfg.Auth.CookieSecure,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.SessionDuration)
}
