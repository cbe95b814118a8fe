package gemini

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, isRateLimitError(errors.New("Error 429, Message: quota exceeded")))
	assert.True(t, isRateLimitError(errors.New("RESOURCE_EXHAUSTED: rate limited")))
	assert.False(t, isRateLimitError(errors.New("context deadline exceeded")))
	assert.False(t, isRateLimitError(nil))
}

func TestExtractRetryDelay(t *testing.T) {
	err := errors.New("Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED")
	assert.InDelta(t, 45.387061394, extractRetryDelay(err).Seconds(), 1e-6)

	err2 := errors.New("retryDelay: 12s")
	assert.Equal(t, 12*time.Second, extractRetryDelay(err2))

	assert.Equal(t, time.Duration(0), extractRetryDelay(errors.New("no delay here")))
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{config: Config{
		InitialBackoff:    45 * time.Second,
		MaxBackoff:        90 * time.Second,
		BackoffMultiplier: 1.5,
	}}

	assert.Equal(t, 45*time.Second, c.calculateBackoff(0, 0))
	assert.InDelta(t, float64(67500*time.Millisecond), float64(c.calculateBackoff(1, 0)), float64(time.Millisecond))
	assert.Equal(t, 90*time.Second, c.calculateBackoff(5, 0), "should cap at MaxBackoff")

	// API-suggested delay becomes the base, plus a 5s buffer.
	assert.Equal(t, 15*time.Second, c.calculateBackoff(0, 10*time.Second))
}
