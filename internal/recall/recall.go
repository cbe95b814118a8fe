// Package recall implements CandidateRecall: the two-stage retrieval that
// narrows a job's resume pool from the whole corpus down to a
// similarity-ranked shortlist, via a coarse industry-prefix filter followed
// by vector similarity search.
package recall

import (
	"context"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/cache"
	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/store"
	"github.com/ternarybob/matchengine/internal/vecnorm"
)

// Candidate is a recall survivor: a resume paired with its normalized
// similarity score, ready to be handed to the Validator.
type Candidate struct {
	Resume          models.Resume
	SimilarityScore float64
}

// Recaller performs the two-stage retrieval for a single job.
type Recaller struct {
	documentStore store.DocumentStore
	resumeCache   *cache.ResumeCache
	normalizer    vecnorm.Normalizer
	cfg           config.RecallConfig
	logger        arbor.ILogger
}

// New builds a Recaller. The normalizer is resolved from the store's
// declared index kind so the caller never has to know which normalization
// strategy applies.
func New(documentStore store.DocumentStore, resumeCache *cache.ResumeCache, cfg config.RecallConfig, logger arbor.ILogger) *Recaller {
	return &Recaller{
		documentStore: documentStore,
		resumeCache:   resumeCache,
		normalizer:    vecnorm.ForIndexKind(documentStore.IndexKind()),
		cfg:           cfg,
		logger:        logger,
	}
}

// Result is the outcome of one Recall call, including the cache-hit flag
// WorkflowEngine folds into PerformanceMetrics.
type Result struct {
	Candidates []Candidate
	CacheHit   bool
	Duration   time.Duration
}

// Recall runs the two-stage retrieval for job, returning the candidate
// shortlist (possibly empty).
func (r *Recaller) Recall(ctx context.Context, job models.Job) (Result, error) {
	start := time.Now()

	if !job.Eligible() {
		r.logger.Warn().Str("job_id", job.ID).Msg("recall called on ineligible job; defensive check should not normally trigger")
		return Result{Duration: time.Since(start)}, nil
	}

	stage1, hit := r.stage1(ctx, job)
	if len(stage1) < 2 {
		r.logger.Debug().Str("job_id", job.ID).Int("stage1_count", len(stage1)).Msg("insufficient candidates after industry filter, skipping vector search")
		return Result{CacheHit: hit, Duration: time.Since(start)}, nil
	}

	candidates, err := r.stage2(ctx, job, stage1)
	if err != nil {
		return Result{CacheHit: hit, Duration: time.Since(start)}, err
	}

	return Result{Candidates: candidates, CacheHit: hit, Duration: time.Since(start)}, nil
}

func (r *Recaller) stage1(ctx context.Context, job models.Job) ([]models.Resume, bool) {
	key := cache.Key(r.cfg.IndustryPrefixes)

	if cached, ok := r.resumeCache.Get(key); ok {
		return cached, true
	}

	resumes, err := r.documentStore.ListResumesByIndustry(ctx, r.cfg.IndustryPrefixes)
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to list resumes by industry")
		return nil, false
	}
	r.resumeCache.Set(key, resumes)
	return resumes, false
}

func (r *Recaller) stage2(ctx context.Context, job models.Job, stage1 []models.Resume) ([]Candidate, error) {
	ids := make([]string, len(stage1))
	idSet := make(map[string]bool, len(stage1))
	for i, res := range stage1 {
		ids[i] = res.ID
		idSet[res.ID] = true
	}

	numCandidates := len(stage1) * 2
	if cap := r.cfg.TopK * 5; cap < numCandidates {
		numCandidates = cap
	}
	limit := r.cfg.TopK * 2

	scored, err := r.documentStore.VectorSearch(ctx, job.Embedding, ids, numCandidates, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(scored))
	for _, sr := range scored {
		if !idSet[sr.Resume.ID] {
			continue // index is global; stage-1 set is the admission filter
		}
		similarity := r.normalizer.Normalize(sr.RawScore)
		if similarity < r.cfg.SimilarityThreshold {
			continue
		}
		candidates = append(candidates, Candidate{Resume: sr.Resume, SimilarityScore: similarity})
	}

	// Preserve descending-similarity order; the store already returns
	// results in raw-score order, but normalization is monotonic so a
	// re-sort here is a cheap safety net against store implementations
	// that don't guarantee ordering.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SimilarityScore > candidates[j].SimilarityScore
	})

	return candidates, nil
}
