package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultIsInvalidWithoutAPIKey(t *testing.T) {
	cfg := NewDefault()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestNewDefaultIsValidWithAPIKey(t *testing.T) {
	cfg := NewDefault()
	cfg.LLM.APIKey = "test-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingRequiredCollection(t *testing.T) {
	cfg := NewDefault()
	cfg.LLM.APIKey = "test-key"
	delete(cfg.Store.Collections, "matches")

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches")
}

func TestValidateRejectsNegativeMaxJobs(t *testing.T) {
	cfg := NewDefault()
	cfg.LLM.APIKey = "test-key"
	cfg.Dedupe.MaxJobs = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_jobs")
}

func TestValidateRejectsUnknownLLMProvider(t *testing.T) {
	cfg := NewDefault()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Provider = "openai"

	assert.Error(t, cfg.Validate())
}

func TestLoadFromFilesAppliesLaterFileOverEarlier(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")

	require.NoError(t, os.WriteFile(first, []byte(`
[execution]
batch_size = 10
max_workers = 2
cache_ttl_seconds = 60
checkpoint_interval = 5
memory_limit_mb = 512

[llm]
provider = "claude"
api_key = "from-first"
`), 0o600))

	require.NoError(t, os.WriteFile(second, []byte(`
[execution]
batch_size = 50
max_workers = 2
cache_ttl_seconds = 60
checkpoint_interval = 5
memory_limit_mb = 512

[llm]
provider = "claude"
api_key = "from-second"
`), 0o600))

	cfg, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Execution.BatchSize)
	assert.Equal(t, "from-second", cfg.LLM.APIKey)
}

func TestLoadFromFilesRejectsInvalidResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[llm]
provider = "not-a-real-provider"
`), 0o600))

	_, err := LoadFromFiles(path)
	require.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MATCHENGINE_MAX_WORKERS", "9")
	t.Setenv("MATCHENGINE_DATA_DIR", "/tmp/custom-data")

	cfg := NewDefault()
	applyEnvOverrides(cfg)

	assert.Equal(t, 9, cfg.Execution.MaxWorkers)
	assert.Equal(t, "/tmp/custom-data", cfg.Store.DataDir)
}

func TestExecutionConfigCacheTTL(t *testing.T) {
	cfg := ExecutionConfig{CacheTTLSeconds: 90}
	assert.Equal(t, 90e9, float64(cfg.CacheTTL()))
}

func TestLLMConfigRequestTimeoutDurationDefaultsWhenUnset(t *testing.T) {
	cfg := LLMConfig{}
	assert.Equal(t, int64(60), cfg.RequestTimeoutDuration().Nanoseconds()/1e9)
}

func TestLLMConfigRequestTimeoutDurationParsesSet(t *testing.T) {
	cfg := LLMConfig{RequestTimeout: "15s"}
	assert.Equal(t, int64(15), cfg.RequestTimeoutDuration().Nanoseconds()/1e9)
}
