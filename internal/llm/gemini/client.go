// Package gemini implements llm.Client against the Google Gemini API, with
// the rate-limit-aware retry behavior the validation stage needs: Gemini's
// free-tier quota windows return 429/RESOURCE_EXHAUSTED with a suggested
// retry delay embedded in the error message.
package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Config carries the subset of gemini settings this client needs; kept
// separate from internal/config so this package has no import-cycle risk.
type Config struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32

	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client wraps the genai client behind the matching engine's narrow
// llm.Client interface, retrying on rate-limit errors.
type Client struct {
	config  Config
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// New constructs a Client. The API key must already be resolved (env var or
// config file); this package does no key discovery of its own.
func New(ctx context.Context, cfg Config, logger arbor.ILogger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("google API key is required for the gemini LLM client")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	initialBackoff := cfg.InitialBackoff
	if initialBackoff <= 0 {
		initialBackoff = 45 * time.Second
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 90 * time.Second
	}
	backoffMultiplier := cfg.BackoffMultiplier
	if backoffMultiplier <= 0 {
		backoffMultiplier = 1.5
	}

	apiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Int("max_retries", maxRetries).
		Msg("Gemini LLM client initialized")

	return &Client{
		config: Config{
			APIKey: cfg.APIKey, Model: model, Timeout: timeout, Temperature: cfg.Temperature,
			MaxRetries: maxRetries, InitialBackoff: initialBackoff, MaxBackoff: maxBackoff, BackoffMultiplier: backoffMultiplier,
		},
		logger:  logger,
		client:  apiClient,
		timeout: timeout,
	}, nil
}

// Generate sends prompt as a single user message, retrying on rate-limit
// errors with backoff derived from the API's own suggested delay when
// present. It gives up after MaxRetries retries (MaxRetries+1 attempts in
// all) or when ctx is done.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = c.config.Model
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		text, err := c.generateOnce(ctx, prompt, model)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRateLimitError(err) || attempt == c.config.MaxRetries {
			return "", err
		}

		backoff := c.calculateBackoff(attempt, extractRetryDelay(err))
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Gemini rate limited, backing off before retry")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}

func (c *Client) generateOnce(ctx context.Context, prompt, model string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{}
	if c.config.Temperature > 0 {
		genConfig.Temperature = genai.Ptr(c.config.Temperature)
	}

	resp, err := c.client.Models.GenerateContent(timeoutCtx, model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}

	c.logger.Debug().
		Str("model", model).
		Int("response_length", text.Len()).
		Dur("duration", time.Since(start)).
		Msg("Gemini generation completed")

	if text.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}
	return text.String(), nil
}

// isRateLimitError matches 429 status codes and RESOURCE_EXHAUSTED errors.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns.
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// extractRetryDelay parses the API-suggested retry delay from a Gemini
// error. Returns 0 if no delay is found in the error message.
func extractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}
	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// calculateBackoff computes the backoff duration for a given attempt. If
// apiDelay > 0 it's used as the base (plus a small buffer); otherwise
// InitialBackoff is used. The result is capped at MaxBackoff.
func (c *Client) calculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.config.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay + 5*time.Second
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.config.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if backoff > c.config.MaxBackoff {
		backoff = c.config.MaxBackoff
	}
	return backoff
}
