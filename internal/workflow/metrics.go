package workflow

import (
	"sync"
	"time"

	"github.com/ternarybob/matchengine/internal/models"
)

// PerformanceMetrics is the WorkflowEngine's mutable, thread-safe counter
// set. It is the one piece of domain state workers write to concurrently,
// so every method takes the lock; callers never reach into its fields
// directly.
type PerformanceMetrics struct {
	mu sync.Mutex

	cacheHits   int
	cacheMisses int

	vectorSearchDurations  []time.Duration
	llmValidationDurations []time.Duration

	jobsProcessed   int
	matched         int
	noValidMatch    int
	noResumesFound  int
	errors          int
}

// NewPerformanceMetrics returns a zeroed metrics accumulator.
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{}
}

func (m *PerformanceMetrics) RecordCacheHit() {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) RecordCacheMiss() {
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) RecordVectorSearch(d time.Duration) {
	m.mu.Lock()
	m.vectorSearchDurations = append(m.vectorSearchDurations, d)
	m.mu.Unlock()
}

func (m *PerformanceMetrics) RecordLLMValidation(d time.Duration) {
	m.mu.Lock()
	m.llmValidationDurations = append(m.llmValidationDurations, d)
	m.mu.Unlock()
}

func (m *PerformanceMetrics) IncrProcessed() {
	m.mu.Lock()
	m.jobsProcessed++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) IncrMatched() {
	m.mu.Lock()
	m.matched++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) IncrNoValidMatch() {
	m.mu.Lock()
	m.noValidMatch++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) IncrNoResumesFound() {
	m.mu.Lock()
	m.noResumesFound++
	m.mu.Unlock()
}

func (m *PerformanceMetrics) IncrErrors() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

// Snapshot copies the current counters into an immutable value safe to hand
// to a Checkpoint or a WorkflowSummary.
func (m *PerformanceMetrics) Snapshot() models.PerformanceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	vs := make([]time.Duration, len(m.vectorSearchDurations))
	copy(vs, m.vectorSearchDurations)
	lv := make([]time.Duration, len(m.llmValidationDurations))
	copy(lv, m.llmValidationDurations)

	return models.PerformanceSnapshot{
		CacheHits:          m.cacheHits,
		CacheMisses:        m.cacheMisses,
		VectorSearchTimes:  vs,
		LLMValidationTimes: lv,
		JobsProcessed:      m.jobsProcessed,
		Matched:            m.matched,
		NoValidMatch:       m.noValidMatch,
		NoResumesFound:     m.noResumesFound,
		Errors:             m.errors,
	}
}
