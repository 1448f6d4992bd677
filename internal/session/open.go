package session

import (
	"fmt"

	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
)

// OpenStore builds the token store selected by cfg. The returned close func
// is never nil.
func OpenStore(cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return NewMemoryStore(), noop, nil
	case config.TokenStoreFile:
		return NewFileStore(cfg.TokenFile), noop, nil
	case config.TokenStoreRedis:
		store, err := NewRedisStore(cfg.RedisURL, cfg.TokenTTL)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
}
