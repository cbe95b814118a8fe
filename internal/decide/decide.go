// Package decide implements MatchDecider: the terminal state machine that
// turns a job's recall candidates plus its LLM validation result into
// exactly one outcome — NoResumesFound, ValidationError, Matched, or
// NoValidMatch.
package decide

import (
	"sort"

	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
	"github.com/ternarybob/matchengine/internal/validate"
)

// Status is one of the four terminal states a job's processing can reach.
type Status string

const (
	StatusNoResumesFound  Status = "no_resumes_found"
	StatusValidationError Status = "validation_error"
	StatusMatched         Status = "matched"
	StatusNoValidMatch    Status = "no_valid_match"
)

// Outcome is MatchDecider's verdict for one job.
type Outcome struct {
	Status    Status
	Shortlist []models.ShortlistEntry
	BestMatch *models.ShortlistEntry // set only when Status == StatusMatched
	Err       error                  // set only when Status == StatusValidationError
}

// Decide joins candidates against the LLM's validation result and resolves
// the terminal state. valErr, if non-nil, is the validation stage's own
// error (LLM call failure or unparsable response) and short-circuits
// straight to ValidationError without inspecting valResult.
func Decide(candidates []recall.Candidate, valResult validate.Result, valErr error) Outcome {
	if len(candidates) == 0 {
		return Outcome{Status: StatusNoResumesFound}
	}
	if valErr != nil {
		return Outcome{Status: StatusValidationError, Err: valErr}
	}

	shortlist := joinShortlist(candidates, valResult.Candidates)

	var validEntries []models.ShortlistEntry
	for _, e := range shortlist {
		if e.IsValid {
			validEntries = append(validEntries, e)
		}
	}
	if len(validEntries) == 0 {
		return Outcome{Status: StatusNoValidMatch, Shortlist: shortlist}
	}

	best := selectBestMatch(validEntries, valResult.BestMatch)
	return Outcome{Status: StatusMatched, Shortlist: shortlist, BestMatch: best}
}

// joinShortlist pairs each recall candidate with its LLM score by resume
// ID. A candidate the LLM never scored is dropped: it never entered the
// prompt (recall returned more candidates than the validator's
// maxCandidates cap), so it has no verdict to report.
func joinShortlist(candidates []recall.Candidate, scores []validate.CandidateScore) []models.ShortlistEntry {
	byID := make(map[string]validate.CandidateScore, len(scores))
	for _, s := range scores {
		byID[s.ResumeID] = s
	}

	entries := make([]models.ShortlistEntry, 0, len(candidates))
	for _, c := range candidates {
		score, ok := byID[c.Resume.ID]
		if !ok {
			continue
		}
		entries = append(entries, models.ShortlistEntry{
			ResumeID:        c.Resume.ID,
			FileID:          c.Resume.FileID,
			SimilarityScore: c.SimilarityScore,
			LLMScore:        score.Score,
			Rank:            score.Rank,
			Summary:         score.Summary,
			IsValid:         score.IsValid,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })
	return entries
}

// selectBestMatch honors the LLM's declared best_match when it names a
// valid shortlist entry. Otherwise — the LLM named a candidate outside the
// valid set, or no candidate at all — it falls back to a deterministic
// tie-break instead of failing the job outright: highest llm_score, then
// lowest rank, then highest similarity, then lowest resume ID
// lexicographically.
func selectBestMatch(validEntries []models.ShortlistEntry, declared string) *models.ShortlistEntry {
	for i := range validEntries {
		if validEntries[i].ResumeID == declared {
			return &validEntries[i]
		}
	}

	sorted := make([]models.ShortlistEntry, len(validEntries))
	copy(sorted, validEntries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.LLMScore != b.LLMScore {
			return a.LLMScore > b.LLMScore
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}
		return a.ResumeID < b.ResumeID
	})
	return &sorted[0]
}
