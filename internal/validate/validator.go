// Package validate implements the LLM validation stage: it takes a job and
// its recall shortlist, asks the configured LLM to score and rank the
// candidates, and returns a structured result. A malformed or unparsable
// LLM response is reported as an error, never coerced into an empty result.
package validate

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/llm"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
)

// CandidateScore is one candidate's LLM-assigned verdict, joined against its
// recall candidate by ResumeID.
type CandidateScore struct {
	ResumeID string
	Rank     int
	Score    int
	Summary  string
	IsValid  bool
}

// Result is the validator's output for one job.
type Result struct {
	Candidates []CandidateScore
	BestMatch  string
	Duration   time.Duration
}

// Validator asks an llm.Client to score a job's recall shortlist.
type Validator struct {
	llm    llm.Client
	cfg    config.ValidationConfig
	logger arbor.ILogger
}

// New builds a Validator.
func New(client llm.Client, cfg config.ValidationConfig, logger arbor.ILogger) *Validator {
	return &Validator{llm: client, cfg: cfg, logger: logger}
}


// Validate sends job and candidates to the LLM and parses its response. An
// error here means the LLM call failed or returned an unparsable response;
// callers must treat this as a terminal ValidationError, not an empty
// shortlist.
func (v *Validator) Validate(ctx context.Context, job models.Job, candidates []recall.Candidate) (Result, error) {
	start := time.Now()

	prompt := buildPrompt(job, candidates, v.cfg.ValidationThreshold)

	raw, err := v.llm.Generate(ctx, prompt, v.cfg.LLMModel)
	if err != nil {
		v.logger.Error().Err(err).Str("job_id", job.ID).Msg("LLM validation call failed")
		return Result{Duration: time.Since(start)}, err
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		v.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to parse LLM validation response")
		return Result{Duration: time.Since(start)}, err
	}

	scores := make([]CandidateScore, 0, len(parsed.Candidates))
	for _, c := range parsed.Candidates {
		scores = append(scores, CandidateScore{
			ResumeID: c.CandidateID,
			Rank:     c.Rank,
			Score:    c.Score,
			Summary:  c.Summary,
			IsValid:  c.IsValid,
		})
	}

	v.logger.Info().
		Str("job_id", job.ID).
		Int("candidate_count", len(candidates)).
		Dur("duration", time.Since(start)).
		Msg("LLM validation completed")

	return Result{Candidates: scores, BestMatch: parsed.BestMatch, Duration: time.Since(start)}, nil
}
