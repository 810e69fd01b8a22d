package cli

import (
	"context"
	"fmt"

	"ufscompras/internal/config"
	"ufscompras/internal/session"
)

// OpenStorage builds the session storage selected by cfg. The returned
// close function releases any connection it opened.
func OpenStorage(ctx context.Context, cfg *config.Config) (session.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SessionBackend {
	case config.SessionBackendFile:
		return session.NewFileStorage(cfg.SessionFile), noop, nil
	case config.SessionBackendRedis:
		client, err := config.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStorage(client, cfg.SessionTTL), client.Close, nil
	case config.SessionBackendMemory:
		return session.NewMemoryStorage(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
