// Package persist translates a MatchDecider outcome into exactly one
// DocumentStore write: a MatchRecord for Matched, an UnmatchedRecord for
// NoValidMatch and NoResumesFound, and nothing at all for ValidationError
// (a failed validation leaves no durable trace other than logs — it isn't
// a job outcome, it's an infrastructure hiccup the caller may retry).
package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/decide"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
	"github.com/ternarybob/matchengine/internal/store"
)

// Persistor writes MatchDecider outcomes to a DocumentStore.
type Persistor struct {
	documentStore store.DocumentStore
	logger        arbor.ILogger
}

// New builds a Persistor.
func New(documentStore store.DocumentStore, logger arbor.ILogger) *Persistor {
	return &Persistor{documentStore: documentStore, logger: logger}
}

// Persist writes outcome for job under workflowRun, using candidates to
// recover the chosen resume's full document for a Matched outcome. now is
// the timestamp stamped on the written record.
func (p *Persistor) Persist(ctx context.Context, job models.Job, candidates []recall.Candidate, outcome decide.Outcome, workflowRun string, now time.Time) error {
	snapshot := models.JobSnapshot{
		JobID:       job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		JobLink:     job.JobLink,
		LinkType:    job.LinkType,
	}

	switch outcome.Status {
	case decide.StatusMatched:
		resume, ok := findResume(candidates, outcome.BestMatch.ResumeID)
		if !ok {
			return fmt.Errorf("matched resume %q not found among recall candidates for job %q", outcome.BestMatch.ResumeID, job.ID)
		}
		rec := models.MatchRecord{
			Job:             snapshot,
			ResumeID:        resume.ID,
			FileID:          resume.FileID,
			ResumeData:      resume.ResumeData,
			KeyMetrics:      resume.KeyMetrics,
			Shortlist:       outcome.Shortlist,
			SimilarityScore: outcome.BestMatch.SimilarityScore,
			MatchScore:      outcome.BestMatch.LLMScore,
			Summary:         outcome.BestMatch.Summary,
			Status:          models.MatchStatusValidated,
			CreatedAt:       now,
			ValidatedAt:     now,
			WorkflowRun:     workflowRun,
		}
		if err := p.documentStore.InsertMatch(ctx, rec); err != nil {
			return fmt.Errorf("failed to insert match for job %q: %w", job.ID, err)
		}
		p.logger.Info().Str("job_id", job.ID).Str("resume_id", resume.ID).Msg("stored valid match")
		return nil

	case decide.StatusNoValidMatch, decide.StatusNoResumesFound:
		rec := models.UnmatchedRecord{
			Job:         snapshot,
			Shortlist:   outcome.Shortlist,
			Status:      models.MatchStatusNoValidMatch,
			CreatedAt:   now,
			ValidatedAt: now,
			WorkflowRun: workflowRun,
		}
		if err := p.documentStore.InsertUnmatched(ctx, rec); err != nil {
			return fmt.Errorf("failed to insert unmatched record for job %q: %w", job.ID, err)
		}
		p.logger.Info().Str("job_id", job.ID).Str("status", string(outcome.Status)).Msg("stored unmatched job")
		return nil

	case decide.StatusValidationError:
		p.logger.Warn().Str("job_id", job.ID).Err(outcome.Err).Msg("validation error, no record persisted")
		return nil

	default:
		return fmt.Errorf("unknown decide status %q for job %q", outcome.Status, job.ID)
	}
}

func findResume(candidates []recall.Candidate, resumeID string) (models.Resume, bool) {
	for _, c := range candidates {
		if c.Resume.ID == resumeID {
			return c.Resume, true
		}
	}
	return models.Resume{}, false
}
