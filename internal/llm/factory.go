package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/llm/claude"
	"github.com/ternarybob/matchengine/internal/llm/gemini"
)

// New constructs the Client selected by cfg.Provider ("claude" or
// "gemini"). Provider-specific defaults and retry behavior live in each
// sub-package; this factory routes, then wraps the client with the
// optional rate limit from cfg.RateLimitQPS.
func New(ctx context.Context, cfg config.LLMConfig, validation config.ValidationConfig, logger arbor.ILogger) (Client, error) {
	var (
		client Client
		err    error
	)

	switch cfg.Provider {
	case "claude":
		client, err = claude.New(claude.Config{
			APIKey:  cfg.APIKey,
			Model:   validation.LLMModel,
			Timeout: cfg.RequestTimeoutDuration(),
		}, logger)
	case "gemini":
		client, err = gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      validation.LLMModel,
			Timeout:    cfg.RequestTimeoutDuration(),
			MaxRetries: validation.RetryAttempts,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return withRateLimit(client, cfg.RateLimitQPS), nil
}
