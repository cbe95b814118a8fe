package badger

import (
	"time"

	"github.com/ternarybob/matchengine/internal/models"
)

// The badgerhold collections below are distinguished by Go type, not by a
// shared table name, following the teacher's one-struct-per-collection
// convention (see internal/storage/badger/document_storage.go in the
// reference repo).

type jobRecord struct {
	models.Job
}

type resumeRecord struct {
	models.Resume
}

// matchRecord and unmatchedRecord are keyed by Key = job_id + "|" + workflow
// run, giving InsertMatch/InsertUnmatched their idempotent-upsert semantics.
type matchRecord struct {
	Key string
	models.MatchRecord
}

type unmatchedRecord struct {
	Key string
	models.UnmatchedRecord
}

type checkpointRecord struct {
	WorkflowType string
	models.Checkpoint
	StoredAt time.Time
}

func recordKey(jobID, workflowRun string) string {
	return jobID + "|" + workflowRun
}
