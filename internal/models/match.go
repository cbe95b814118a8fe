package models

import "time"

const (
	// MatchStatusValidated tags a MatchRecord chosen from a valid shortlist entry.
	MatchStatusValidated = "VALIDATED"
	// MatchStatusNoValidMatch tags an UnmatchedRecord whose shortlist had no valid entry.
	MatchStatusNoValidMatch = "NO_VALID_MATCH"
)

// JobSnapshot copies the Job fields a match/unmatched record needs so that
// readers never have to re-join against the jobs collection.
type JobSnapshot struct {
	JobID       string `json:"job_posting_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	JobLink     string `json:"job_link"`
	LinkType    string `json:"link_type"`
}

// MatchRecord is persisted when at least one shortlist entry is valid.
// Invariant: exactly one MatchRecord per job per workflow run; the chosen
// resume is one of the shortlist entries with IsValid set.
type MatchRecord struct {
	Job JobSnapshot `json:"job"`

	ResumeID   string     `json:"resume_id"`
	FileID     string     `json:"file_id"`
	ResumeData ResumeData `json:"resume_data"`
	KeyMetrics KeyMetrics `json:"key_metrics"`

	Shortlist []ShortlistEntry `json:"matched_resumes"`

	SimilarityScore float64 `json:"semantic_similarity"`
	MatchScore      int     `json:"match_score"`
	Summary         string  `json:"match_summary"`

	Status       string    `json:"match_status"`
	CreatedAt    time.Time `json:"created_at"`
	ValidatedAt  time.Time `json:"validated_at"`
	WorkflowRun  string    `json:"workflow_run"`
}

// UnmatchedRecord is persisted when the shortlist has no valid entry,
// including the degenerate empty case. Invariant: exactly one
// UnmatchedRecord per unmatched job per run; no job has both a MatchRecord
// and an UnmatchedRecord from the same run.
type UnmatchedRecord struct {
	Job JobSnapshot `json:"job"`

	Shortlist []ShortlistEntry `json:"matched_resumes"`

	Status      string    `json:"match_status"`
	CreatedAt   time.Time `json:"created_at"`
	ValidatedAt time.Time `json:"validated_at"`
	WorkflowRun string    `json:"workflow_run"`
}
