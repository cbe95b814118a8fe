package models

import "time"

// PerformanceSnapshot is a point-in-time copy of PerformanceMetrics suitable
// for embedding in a Checkpoint or WorkflowSummary.
type PerformanceSnapshot struct {
	CacheHits            int             `json:"cache_hits"`
	CacheMisses          int             `json:"cache_misses"`
	VectorSearchTimes    []time.Duration `json:"vector_search_times"`
	LLMValidationTimes   []time.Duration `json:"llm_validation_times"`
	JobsProcessed        int             `json:"jobs_processed"`
	Matched              int             `json:"matched"`
	NoValidMatch         int             `json:"no_valid_match"`
	NoResumesFound       int             `json:"no_resumes_found"`
	Errors               int             `json:"errors"`
}
