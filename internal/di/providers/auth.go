package providers

import (
	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/auth"
	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/logger"
)

// AuthKey wraps the session token key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the session token key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if len(cfg.Auth.TokenKey) > 0 {
		return AuthKey(cfg.Auth.TokenKey), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.TokenKey = key

	log.Info("Session key loaded", "session_duration", cfg.Auth.SessionDuration)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO session token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	key := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService(key)
}

// ProvideHasher provides the argon2id password hasher.
func ProvideHasher(_ do.Injector) (*auth.Hasher, error) {
	return auth.NewHasher(auth.DefaultHashParams), nil
}
