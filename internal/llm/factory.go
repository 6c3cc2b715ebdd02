package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/vercus/internal/store"
)

// NewProvider creates the model gateway from configuration: the failover
// pool wrapped with event logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := NewFailoverProvider(ctx, cfg.Credentials, WithCredentialTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("build failover pool: %w", err)
	}

	// Wrap with middleware: caller → logging → failover → vendor adapters
	return WithLogging(pool, eventRepo), nil
}

// NewProviderFromEnv builds the gateway from environment configuration.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo)
}
