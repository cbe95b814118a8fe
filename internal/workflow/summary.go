package workflow

import (
	"fmt"
	"time"

	"github.com/ternarybob/matchengine/internal/models"
)

// WorkflowSummary is returned by Engine.Run: the supplemented statistics
// block the original workflow exposed via get_workflow_statistics(), folded
// into the run's own return value rather than a separate call.
type WorkflowSummary struct {
	WorkflowRun string
	StartedAt   time.Time
	FinishedAt  time.Time

	JobsConsidered int
	Metrics        models.PerformanceSnapshot
}

// Duration is the wall-clock time the run took.
func (s WorkflowSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// AverageVectorSearchDuration is 0 when no vector searches ran.
func (s WorkflowSummary) AverageVectorSearchDuration() time.Duration {
	return average(s.Metrics.VectorSearchTimes)
}

// AverageLLMValidationDuration is 0 when no validations ran.
func (s WorkflowSummary) AverageLLMValidationDuration() time.Duration {
	return average(s.Metrics.LLMValidationTimes)
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

// GetPerformanceRecommendations inspects the run's metrics and surfaces
// operational suggestions, mirroring the original workflow's
// get_workflow_statistics() advisory notes (cache efficiency, error rate,
// LLM latency) as plain strings a CLI operator can read directly.
func (s WorkflowSummary) GetPerformanceRecommendations() []string {
	var recs []string

	totalCacheLookups := s.Metrics.CacheHits + s.Metrics.CacheMisses
	if totalCacheLookups > 0 {
		hitRate := float64(s.Metrics.CacheHits) / float64(totalCacheLookups)
		if hitRate < 0.5 {
			recs = append(recs, fmt.Sprintf("resume cache hit rate is low (%.0f%%); consider raising cache_ttl_seconds or widening industry_prefixes", hitRate*100))
		}
	}

	if s.Metrics.JobsProcessed > 0 {
		errorRate := float64(s.Metrics.Errors) / float64(s.Metrics.JobsProcessed)
		if errorRate > 0.1 {
			recs = append(recs, fmt.Sprintf("job error rate is high (%.0f%%); inspect logs for recurring validation or store failures", errorRate*100))
		}
		noResumeRate := float64(s.Metrics.NoResumesFound) / float64(s.Metrics.JobsProcessed)
		if noResumeRate > 0.3 {
			recs = append(recs, fmt.Sprintf("%.0f%% of jobs found no resume candidates; consider widening industry_prefixes or lowering similarity_threshold", noResumeRate*100))
		}
	}

	if avg := s.AverageLLMValidationDuration(); avg > 10*time.Second {
		recs = append(recs, fmt.Sprintf("average LLM validation call took %s; consider a faster model or reducing candidates per job", avg))
	}

	return recs
}
