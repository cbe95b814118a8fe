// Package store defines the DocumentStore abstraction the matching engine's
// core depends on: jobs, resumes, matches, unmatched records, and
// checkpoints, plus vector search over the resume embedding field.
package store

import (
	"context"

	"github.com/ternarybob/matchengine/internal/models"
)

// JobQuery narrows list_eligible_jobs per the configured dedupe policy.
type JobQuery struct {
	SearchTerms       []string
	MaxJobs           int // 0 means unbounded
	ExcludeProcessed  []string
}

// ScoredResume pairs a candidate Resume with its raw, un-normalized index
// score. Normalization into [0,1] happens in internal/recall via a
// vecnorm.Normalizer, not here.
type ScoredResume struct {
	Resume   models.Resume
	RawScore float64
}

// DocumentStore is the abstract accessor for jobs, resumes, matches,
// unmatched records, and checkpoints. Implementations must be safe for
// concurrent use by multiple workers.
type DocumentStore interface {
	// ListEligibleJobs returns jobs satisfying eligibility (non-empty
	// embedding, successful extraction), the search-term filter, and the
	// duplicate-processing filter encoded in query.
	ListEligibleJobs(ctx context.Context, query JobQuery) ([]models.Job, error)

	// ListResumesByIndustry returns all resumes whose industry prefix is in
	// prefixes; when prefixes is empty, it returns every resume.
	ListResumesByIndustry(ctx context.Context, prefixes []string) ([]models.Resume, error)

	// VectorSearch runs nearest-neighbour search against the resume
	// embedding field for query, restricted to the given candidate id set,
	// requesting up to numCandidates and returning at most limit results in
	// descending raw-score order.
	VectorSearch(ctx context.Context, queryVector []float32, candidateIDs []string, numCandidates, limit int) ([]ScoredResume, error)

	// IndexKind reports the kind of raw score VectorSearch returns (e.g.
	// "cosine", "inner_product"), used to select a vecnorm.Normalizer.
	IndexKind() string

	// InsertMatch is idempotent per (job id, workflow run): re-inserting is
	// an overwrite-equivalent no-op, never a duplicate.
	InsertMatch(ctx context.Context, rec models.MatchRecord) error

	// InsertUnmatched is idempotent per (job id, workflow run).
	InsertUnmatched(ctx context.Context, rec models.UnmatchedRecord) error

	// ProcessedJobIDs returns the set of job ids already present in the
	// matches or unmatched collections, used by the skip_processed_jobs
	// filter.
	ProcessedJobIDs(ctx context.Context) (map[string]bool, error)

	// WriteCheckpoint atomically supersedes any prior checkpoint for the
	// same workflow type.
	WriteCheckpoint(ctx context.Context, cp models.Checkpoint) error

	// ReadLatestCheckpoint returns the most recent checkpoint for
	// workflowType, or ErrNotFound if none exists.
	ReadLatestCheckpoint(ctx context.Context, workflowType string) (models.Checkpoint, error)

	// CountMatches and CountUnmatched are statistical helpers for
	// reporting; not on the hot path.
	CountMatches(ctx context.Context) (int, error)
	CountUnmatched(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}
