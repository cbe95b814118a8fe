package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingClient struct {
	calls int
}

func (c *countingClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	c.calls++
	return "ok", nil
}

func TestWithRateLimitPassthroughWhenUnset(t *testing.T) {
	cc := &countingClient{}
	wrapped := withRateLimit(cc, 0)
	assert.Same(t, Client(cc), wrapped, "zero QPS should return the client unwrapped")
}

func TestWithRateLimitWraps(t *testing.T) {
	cc := &countingClient{}
	wrapped := withRateLimit(cc, 5)

	text, err := wrapped.Generate(context.Background(), "p", "m")
	assert.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, cc.calls)
}
