package claude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestNewRejectsEmptyAPIKey(t *testing.T) {
	_, err := New(Config{}, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(Config{APIKey: "test-key"}, arbor.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, defaultModel, c.config.Model)
	assert.Equal(t, defaultMaxTokens, c.maxTokens)
	assert.Equal(t, int64(60), c.timeout.Nanoseconds()/1e9)
}

func TestNewHonorsExplicitOverrides(t *testing.T) {
	c, err := New(Config{APIKey: "test-key", Model: "claude-opus", MaxTokens: 2048}, arbor.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, "claude-opus", c.config.Model)
	assert.Equal(t, 2048, c.maxTokens)
}
