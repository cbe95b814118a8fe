// Package claude implements llm.Client against the Anthropic Claude API.
package claude

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
)

const defaultModel = "claude-sonnet-4-20250514"
const defaultMaxTokens = 8192

// Client wraps the Anthropic SDK client behind the matching engine's narrow
// llm.Client interface.
type Client struct {
	config    Config
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// Config carries the subset of claude settings this client needs; kept
// separate from internal/config so this package has no import-cycle risk.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Timeout     time.Duration
	Temperature float32
}

// New constructs a Client. The API key must already be resolved (env var or
// config file); this package does no key discovery of its own.
func New(cfg Config, logger arbor.ILogger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic API key is required for the claude LLM client")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	apiClient := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude LLM client initialized")

	return &Client{
		config:    Config{APIKey: cfg.APIKey, Model: model, MaxTokens: maxTokens, Timeout: timeout, Temperature: cfg.Temperature},
		logger:    logger,
		client:    apiClient,
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

// Generate sends prompt as a single user message and returns the
// concatenated text content of the response.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if model == "" {
		model = c.config.Model
	}

	start := time.Now()
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.config.Temperature))
	}

	resp, err := c.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			text.WriteString(block.Text)
		}
	}

	c.logger.Debug().
		Str("model", model).
		Int("response_length", text.Len()).
		Dur("duration", time.Since(start)).
		Msg("Claude generation completed")

	if text.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}
	return text.String(), nil
}
