// Package workflow implements WorkflowEngine: the batch executor that
// orchestrates CandidateRecall, Validator, MatchDecider, and Persistor over
// a job corpus with bounded parallelism, checkpointing, and memory
// housekeeping.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/cache"
	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/decide"
	"github.com/ternarybob/matchengine/internal/errs"
	"github.com/ternarybob/matchengine/internal/llm"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/persist"
	"github.com/ternarybob/matchengine/internal/recall"
	"github.com/ternarybob/matchengine/internal/store"
	"github.com/ternarybob/matchengine/internal/validate"
)

// Services bundles the external dependencies the engine needs, passed in
// explicitly rather than reached for via package-level singletons (the
// teacher's arbor logger being the sole exception, since that is a purely
// ambient concern rather than domain state).
type Services struct {
	Store  store.DocumentStore
	LLM    llm.Client
	Clock  func() time.Time
	Logger arbor.ILogger
}

// Engine is the WorkflowEngine. It exclusively owns the mutable run state:
// the resume cache, the performance metrics, and the checkpoint cursor.
type Engine struct {
	cfg      *config.Config
	services Services

	recaller  *recall.Recaller
	validator *validate.Validator
	persistor *persist.Persistor

	resumeCache *cache.ResumeCache
	metrics     *PerformanceMetrics

	mu              sync.Mutex
	processedJobIDs []string
}

// NewEngine wires the pipeline stages from cfg and services.
func NewEngine(cfg *config.Config, services Services) (*Engine, error) {
	if services.Store == nil {
		return nil, fmt.Errorf("workflow: Services.Store is required")
	}
	if services.LLM == nil {
		return nil, fmt.Errorf("workflow: Services.LLM is required")
	}
	if services.Clock == nil {
		services.Clock = time.Now
	}
	if services.Logger == nil {
		return nil, fmt.Errorf("workflow: Services.Logger is required")
	}

	resumeCache := cache.New(cfg.Execution.CacheTTL())

	return &Engine{
		cfg:         cfg,
		services:    services,
		recaller:    recall.New(services.Store, resumeCache, cfg.Recall, services.Logger),
		validator:   validate.New(services.LLM, cfg.Validation, services.Logger),
		persistor:   persist.New(services.Store, services.Logger),
		resumeCache: resumeCache,
		metrics:     NewPerformanceMetrics(),
	}, nil
}

// Run loads eligible jobs, partitions them into sequential batches of
// bounded-parallel workers, and drives each job through the pipeline. It
// checkpoints every checkpoint_interval jobs and polls memory every
// 2*checkpoint_interval jobs, clearing the resume cache if over
// memory_limit_mb. A cancelled ctx lets in-flight jobs finish, persists a
// final checkpoint, and returns a partial summary.
func (e *Engine) Run(ctx context.Context) (WorkflowSummary, error) {
	workflowRun := uuid.NewString()
	started := e.services.Clock()

	e.services.Logger.Info().Str("workflow_run", workflowRun).Msg("starting matching workflow run")

	query, err := e.buildJobQuery(ctx)
	if err != nil {
		return WorkflowSummary{}, fmt.Errorf("failed to build job query: %w", err)
	}

	jobs, err := e.services.Store.ListEligibleJobs(ctx, query)
	if err != nil {
		return WorkflowSummary{}, fmt.Errorf("failed to list eligible jobs: %w", err)
	}

	batchSize := e.cfg.Execution.BatchSize
	checkpointInterval := e.cfg.Execution.CheckpointInterval
	memoryPollInterval := 2 * checkpointInterval
	lastCheckpoint, lastMemoryPoll := 0, 0

	for start := 0; start < len(jobs); start += batchSize {
		if ctx.Err() != nil {
			break
		}

		end := start + batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]

		e.runBatch(ctx, batch, workflowRun)

		e.mu.Lock()
		processedCount := len(e.processedJobIDs)
		e.mu.Unlock()

		if processedCount-lastCheckpoint >= checkpointInterval {
			if err := e.writeCheckpoint(ctx, workflowRun); err != nil {
				e.services.Logger.Error().Err(err).Msg("failed to write checkpoint")
			}
			lastCheckpoint = processedCount
		}
		if processedCount-lastMemoryPoll >= memoryPollInterval {
			e.pollMemory()
			lastMemoryPoll = processedCount
		}
	}

	if err := e.writeCheckpoint(ctx, workflowRun); err != nil {
		e.services.Logger.Error().Err(err).Msg("failed to write final checkpoint")
	}

	finished := e.services.Clock()
	summary := WorkflowSummary{
		WorkflowRun:    workflowRun,
		StartedAt:      started,
		FinishedAt:     finished,
		JobsConsidered: len(jobs),
		Metrics:        e.metrics.Snapshot(),
	}

	e.services.Logger.Info().
		Str("workflow_run", workflowRun).
		Int("jobs_considered", len(jobs)).
		Dur("duration", summary.Duration()).
		Msg("matching workflow run complete")

	return summary, ctx.Err()
}

// runBatch processes batch with up to max_workers concurrent workers. It
// blocks until every job in the batch has completed; there is no overlap
// between this batch's completion and the next batch's start.
func (e *Engine) runBatch(ctx context.Context, batch []models.Job, workflowRun string) {
	sem := make(chan struct{}, e.cfg.Execution.MaxWorkers)
	var wg sync.WaitGroup

	for _, job := range batch {
		if ctx.Err() != nil {
			break
		}
		job := job
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					e.services.Logger.Error().
						Str("job_id", job.ID).
						Interface("panic", r).
						Msg("recovered from panic while processing job")
					e.metrics.IncrErrors()
				}
			}()
			e.processJob(ctx, job, workflowRun)
		}()
	}

	wg.Wait()
}

// processJob drives a single job through recall, validation, decision, and
// persistence. Every recall or validation error is wrapped as transient and
// retried up to retry_attempts times in all, whatever its cause: a malformed
// LLM response or a rejected store call is retried like a network failure.
// The last error is then folded into a terminal decide.Outcome.
func (e *Engine) processJob(ctx context.Context, job models.Job, workflowRun string) {
	logger := e.services.Logger
	recallPolicy := newRetryPolicy(e.cfg.Validation.RetryAttempts, retryDelayDuration(e.cfg.Validation.RetryDelay))

	var recallResult recall.Result
	recallErr := recallPolicy.run(ctx, logger, func() error {
		r, err := e.recaller.Recall(ctx, job)
		if err != nil {
			return errs.Transient(err)
		}
		recallResult = r
		return nil
	})

	if recallResult.CacheHit {
		e.metrics.RecordCacheHit()
	} else {
		e.metrics.RecordCacheMiss()
	}
	if recallResult.Duration > 0 {
		e.metrics.RecordVectorSearch(recallResult.Duration)
	}

	e.metrics.IncrProcessed()
	e.markProcessed(job.ID)

	if recallErr != nil {
		logger.Error().Err(recallErr).Str("job_id", job.ID).Msg("recall failed after retries")
		e.metrics.IncrErrors()
		return
	}

	var valResult validate.Result
	var valErr error
	if len(recallResult.Candidates) > 0 {
		validationPolicy := newRetryPolicy(e.cfg.Validation.RetryAttempts, retryDelayDuration(e.cfg.Validation.RetryDelay))
		valErr = validationPolicy.run(ctx, logger, func() error {
			vr, err := e.validator.Validate(ctx, job, recallResult.Candidates)
			if err != nil {
				return errs.Transient(err)
			}
			valResult = vr
			return nil
		})
		e.metrics.RecordLLMValidation(valResult.Duration)
	}

	outcome := decide.Decide(recallResult.Candidates, valResult, valErr)

	switch outcome.Status {
	case decide.StatusMatched:
		e.metrics.IncrMatched()
	case decide.StatusNoValidMatch:
		e.metrics.IncrNoValidMatch()
	case decide.StatusNoResumesFound:
		e.metrics.IncrNoResumesFound()
	case decide.StatusValidationError:
		e.metrics.IncrErrors()
	}

	if err := e.persistor.Persist(ctx, job, recallResult.Candidates, outcome, workflowRun, e.services.Clock()); err != nil {
		logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist job outcome")
		e.metrics.IncrErrors()
	}
}

func (e *Engine) markProcessed(jobID string) {
	e.mu.Lock()
	e.processedJobIDs = append(e.processedJobIDs, jobID)
	e.mu.Unlock()
}

func (e *Engine) writeCheckpoint(ctx context.Context, workflowRun string) error {
	e.mu.Lock()
	ids := make([]string, len(e.processedJobIDs))
	copy(ids, e.processedJobIDs)
	e.mu.Unlock()

	cp := models.Checkpoint{
		WorkflowType:       "resume_job_matching",
		ProcessedJobIDs:    ids,
		Timestamp:          e.services.Clock(),
		EngineStatus:       "running",
		PerformanceMetrics: e.metrics.Snapshot(),
	}
	return e.services.Store.WriteCheckpoint(ctx, cp)
}

// pollMemory is Go's substitute for the original's psutil RSS check:
// runtime.ReadMemStats reports heap usage directly rather than process RSS,
// but serves the same threshold-and-clear role.
func (e *Engine) pollMemory() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	heapMB := stats.HeapAlloc / (1024 * 1024)
	limitMB := uint64(e.cfg.Execution.MemoryLimitMB)

	e.services.Logger.Debug().Uint64("heap_mb", heapMB).Uint64("limit_mb", limitMB).Msg("memory poll")

	if heapMB > limitMB {
		e.services.Logger.Warn().Uint64("heap_mb", heapMB).Uint64("limit_mb", limitMB).Msg("memory above limit, clearing resume cache")
		e.resumeCache.Clear()
	}
}

func (e *Engine) buildJobQuery(ctx context.Context) (store.JobQuery, error) {
	query := store.JobQuery{
		SearchTerms: e.cfg.Recall.SearchTerms,
		MaxJobs:     e.cfg.Dedupe.MaxJobs,
	}

	if e.cfg.Dedupe.SkipProcessedJobs && !e.cfg.Dedupe.ForceReprocess {
		processed, err := e.services.Store.ProcessedJobIDs(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to load processed job ids: %w", err)
		}
		for id := range processed {
			query.ExcludeProcessed = append(query.ExcludeProcessed, id)
		}
	}

	return query, nil
}

// IsJobProcessed reports whether jobID has a match or unmatched record from
// any prior run. Exposed for operational tooling, not wired into the CLI.
func (e *Engine) IsJobProcessed(ctx context.Context, jobID string) (bool, error) {
	processed, err := e.services.Store.ProcessedJobIDs(ctx)
	if err != nil {
		return false, err
	}
	return processed[jobID], nil
}

// ResumeFromCheckpoint reads the latest checkpoint for the matching
// workflow type. Exposed for operational tooling, not wired into the CLI.
func (e *Engine) ResumeFromCheckpoint(ctx context.Context) (*models.Checkpoint, error) {
	cp, err := e.services.Store.ReadLatestCheckpoint(ctx, "resume_job_matching")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cp, nil
}

// Close releases the engine's resources. Go has no context-manager
// protocol, so this is the explicit substitute for the original's
// __exit__/cleanup().
func (e *Engine) Close() error {
	e.resumeCache.Clear()
	return e.services.Store.Close()
}

func retryDelayDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return time.Second
	}
	return time.Duration(seconds * float64(time.Second))
}
