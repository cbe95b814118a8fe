// Package config defines the matching engine's frozen run configuration:
// thresholds, batch sizes, filters, and collection names. A Config is
// constructed once per run and never mutated afterward.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level immutable run configuration.
type Config struct {
	Store      StoreConfig      `toml:"store"`
	Recall     RecallConfig     `toml:"recall"`
	Validation ValidationConfig `toml:"validation"`
	Execution  ExecutionConfig  `toml:"execution"`
	Dedupe     DedupeConfig     `toml:"dedupe"`
	Logging    LoggingConfig    `toml:"logging"`
	LLM        LLMConfig        `toml:"llm"`
}

// StoreConfig names the logical document store namespace and collections.
type StoreConfig struct {
	DBName      string            `toml:"db_name" validate:"required"`
	Collections map[string]string `toml:"collections" validate:"required"`
	DataDir     string            `toml:"data_dir" validate:"required"`
	IndexName   string            `toml:"index_name"`
}

// RecallConfig governs CandidateRecall's two-stage retrieval.
type RecallConfig struct {
	IndustryPrefixes    []string `toml:"industry_prefixes"`
	SearchTerms         []string `toml:"search_terms"`
	TopK                int      `toml:"top_k" validate:"required,gt=0"`
	SimilarityThreshold float64  `toml:"similarity_threshold" validate:"gte=0,lte=1"`
}

// ValidationConfig governs the Validator and MatchDecider thresholds.
type ValidationConfig struct {
	LLMModel           string  `toml:"llm_model" validate:"required"`
	ValidationThreshold int    `toml:"validation_threshold" validate:"gte=0,lte=100"`
	RetryAttempts      int     `toml:"retry_attempts" validate:"gte=0"`
	RetryDelay         float64 `toml:"retry_delay" validate:"gte=0"`
}

// ExecutionConfig governs WorkflowEngine's concurrency and housekeeping.
type ExecutionConfig struct {
	BatchSize          int `toml:"batch_size" validate:"required,gt=0"`
	MaxWorkers         int `toml:"max_workers" validate:"required,gt=0"`
	CacheTTLSeconds    int `toml:"cache_ttl_seconds" validate:"required,gt=0"`
	CheckpointInterval int `toml:"checkpoint_interval" validate:"required,gt=0"`
	MemoryLimitMB      int `toml:"memory_limit_mb" validate:"required,gt=0"`
}

// CacheTTL returns the configured cache lifetime as a time.Duration.
func (e ExecutionConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// DedupeConfig governs job selection across repeated runs.
type DedupeConfig struct {
	MaxJobs            int  `toml:"max_jobs"` // 0 means unbounded
	SkipProcessedJobs  bool `toml:"skip_processed_jobs"`
	ForceReprocess     bool `toml:"force_reprocess"`
}

// LoggingConfig mirrors the ambient logging conventions used across the
// rest of this codebase family: a set of writer outputs plus a level.
type LoggingConfig struct {
	Level      string   `toml:"level" validate:"required"`
	Output     []string `toml:"output" validate:"required,min=1"`
	TimeFormat string   `toml:"time_format"`
}

// LLMConfig selects and configures the validator's LLM client.
type LLMConfig struct {
	Provider       string  `toml:"provider" validate:"required,oneof=claude gemini"`
	APIKey         string  `toml:"api_key"`
	RequestTimeout string  `toml:"request_timeout"`
	RateLimitQPS   float64 `toml:"rate_limit_qps"`
}

// RequestTimeoutDuration parses RequestTimeout, defaulting to 60s if unset
// or unparsable.
func (l LLMConfig) RequestTimeoutDuration() time.Duration {
	if l.RequestTimeout == "" {
		return 60 * time.Second
	}
	d, err := time.ParseDuration(l.RequestTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// NewDefault returns the engine's default configuration, matching the
// defaults carried by the original workflow's config module.
func NewDefault() *Config {
	return &Config{
		Store: StoreConfig{
			DBName: "resume_study",
			Collections: map[string]string{
				"job_postings": "job_postings",
				"resumes":      "standardized_resume_data",
				"matches":      "resume_job_matches",
				"unmatched":    "unmatched_job_postings",
			},
			DataDir:   "./data",
			IndexName: "resume_embeddings",
		},
		Recall: RecallConfig{
			IndustryPrefixes:    []string{},
			SearchTerms:         []string{},
			TopK:                3,
			SimilarityThreshold: 0.30,
		},
		Validation: ValidationConfig{
			LLMModel:            "claude-sonnet-4-20250514",
			ValidationThreshold: 70,
			RetryAttempts:       2,
			RetryDelay:          1.0,
		},
		Execution: ExecutionConfig{
			BatchSize:          20,
			MaxWorkers:         4,
			CacheTTLSeconds:    3600,
			CheckpointInterval: 100,
			MemoryLimitMB:      2048,
		},
		Dedupe: DedupeConfig{
			SkipProcessedJobs: true,
			ForceReprocess:    false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			Provider:       "claude",
			RequestTimeout: "60s",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> environment variables. Later files override earlier ones.
// The result is validated before being returned; an invalid configuration
// is rejected here so the engine never starts in a bad state.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefault()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MATCHENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MATCHENGINE_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("MATCHENGINE_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Execution.MaxWorkers = n
		}
	}
	if v := os.Getenv("MATCHENGINE_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Execution.BatchSize = n
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.LLM.Provider == "claude" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.LLM.Provider == "gemini" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
}

var requiredCollections = []string{"job_postings", "resumes", "matches", "unmatched"}

// Validate checks the configuration for internal consistency, beyond the
// struct-tag checks the validator library enforces. Invalid configuration is
// rejected at construction; the engine refuses to start.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	for _, key := range requiredCollections {
		if _, ok := c.Store.Collections[key]; !ok {
			return fmt.Errorf("store.collections missing required key %q", key)
		}
	}

	if c.Dedupe.MaxJobs < 0 {
		return fmt.Errorf("dedupe.max_jobs must be >= 0 (0 means unbounded)")
	}

	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("llm.api_key must be set (config file or environment variable)")
	}

	return nil
}
