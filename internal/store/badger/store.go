package badger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/store"
)

// Store is the reference DocumentStore backed by badger/badgerhold.
type Store struct {
	db     *db
	logger arbor.ILogger
}

// New opens (or creates) a badger database at dataDir and returns a Store.
func New(logger arbor.ILogger, dataDir string) (*Store, error) {
	conn, err := openDB(logger, dataDir)
	if err != nil {
		return nil, err
	}
	return &Store{db: conn, logger: logger}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IndexKind reports the kind of raw score VectorSearch returns. The
// brute-force scan below computes a plain cosine similarity, which is
// signed ([-1,1]) rather than pre-clamped to [0,1] — so it is declared
// honestly as "inner_product" here so CandidateRecall selects the sigmoid
// normalizer instead of a naive clamp.
func (s *Store) IndexKind() string { return "inner_product" }

// ListEligibleJobs returns jobs satisfying eligibility (embedding present,
// extraction succeeded), the search-term filter, and the duplicate
// processing filter encoded in query.ExcludeProcessed.
func (s *Store) ListEligibleJobs(ctx context.Context, query store.JobQuery) ([]models.Job, error) {
	var records []jobRecord
	q := badgerhold.Where("Extracted").Eq(true)
	if err := s.db.store.Find(&records, q); err != nil {
		return nil, fmt.Errorf("%w: list eligible jobs: %v", store.ErrUnavailable, err)
	}

	excluded := make(map[string]bool, len(query.ExcludeProcessed))
	for _, id := range query.ExcludeProcessed {
		excluded[id] = true
	}

	searchTerms := make(map[string]bool, len(query.SearchTerms))
	for _, t := range query.SearchTerms {
		searchTerms[t] = true
	}

	jobs := make([]models.Job, 0, len(records))
	for _, r := range records {
		j := r.Job
		if !j.Eligible() {
			continue
		}
		if excluded[j.ID] {
			continue
		}
		if len(searchTerms) > 0 && !searchTerms[j.SearchTerm] {
			continue
		}
		jobs = append(jobs, j)
		if query.MaxJobs > 0 && len(jobs) >= query.MaxJobs {
			break
		}
	}
	return jobs, nil
}

// ListResumesByIndustry returns the eligible resumes (non-empty embedding)
// whose industry prefix is in prefixes; when prefixes is empty, it returns
// every eligible resume.
func (s *Store) ListResumesByIndustry(ctx context.Context, prefixes []string) ([]models.Resume, error) {
	var records []resumeRecord
	var q *badgerhold.Query
	if len(prefixes) > 0 {
		vals := make([]interface{}, len(prefixes))
		for i, p := range prefixes {
			vals[i] = p
		}
		q = badgerhold.Where("IndustryPrefix").In(vals...)
	}

	var err error
	if q != nil {
		err = s.db.store.Find(&records, q)
	} else {
		err = s.db.store.Find(&records, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list resumes by industry: %v", store.ErrUnavailable, err)
	}

	resumes := make([]models.Resume, 0, len(records))
	for _, r := range records {
		if r.Resume.Eligible() {
			resumes = append(resumes, r.Resume)
		}
	}
	return resumes, nil
}

// VectorSearch runs a brute-force cosine-similarity scan over the resumes
// named in candidateIDs, returning up to limit results in descending
// raw-score order. numCandidates bounds how many ids are scored (the
// reference store has no native ANN index to limit candidates for it, so
// it is honoured as a cap on the id set considered).
func (s *Store) VectorSearch(ctx context.Context, queryVector []float32, candidateIDs []string, numCandidates, limit int) ([]store.ScoredResume, error) {
	if numCandidates > 0 && numCandidates < len(candidateIDs) {
		candidateIDs = candidateIDs[:numCandidates]
	}

	scored := make([]store.ScoredResume, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		var rec resumeRecord
		if err := s.db.store.Get(id, &rec); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return nil, fmt.Errorf("%w: vector search: %v", store.ErrUnavailable, err)
		}
		if !rec.Resume.Eligible() {
			continue
		}
		score := cosineSimilarity(queryVector, rec.Resume.Embedding)
		scored = append(scored, store.ScoredResume{Resume: rec.Resume, RawScore: score})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].RawScore > scored[j].RawScore })

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// InsertMatch upserts a MatchRecord keyed by (job id, workflow run); a
// duplicate insert is an overwrite-equivalent no-op.
func (s *Store) InsertMatch(ctx context.Context, rec models.MatchRecord) error {
	key := recordKey(rec.Job.JobID, rec.WorkflowRun)
	if err := s.db.store.Upsert(key, &matchRecord{Key: key, MatchRecord: rec}); err != nil {
		return fmt.Errorf("%w: insert match: %v", store.ErrRejected, err)
	}
	return nil
}

// InsertUnmatched upserts an UnmatchedRecord keyed by (job id, workflow run).
func (s *Store) InsertUnmatched(ctx context.Context, rec models.UnmatchedRecord) error {
	key := recordKey(rec.Job.JobID, rec.WorkflowRun)
	if err := s.db.store.Upsert(key, &unmatchedRecord{Key: key, UnmatchedRecord: rec}); err != nil {
		return fmt.Errorf("%w: insert unmatched: %v", store.ErrRejected, err)
	}
	return nil
}

// ProcessedJobIDs returns the set of job ids already present in the matches
// or unmatched collections, across all workflow runs.
func (s *Store) ProcessedJobIDs(ctx context.Context) (map[string]bool, error) {
	var matches []matchRecord
	if err := s.db.store.Find(&matches, nil); err != nil {
		return nil, fmt.Errorf("%w: list processed matches: %v", store.ErrUnavailable, err)
	}
	var unmatched []unmatchedRecord
	if err := s.db.store.Find(&unmatched, nil); err != nil {
		return nil, fmt.Errorf("%w: list processed unmatched: %v", store.ErrUnavailable, err)
	}

	ids := make(map[string]bool, len(matches)+len(unmatched))
	for _, m := range matches {
		ids[m.MatchRecord.Job.JobID] = true
	}
	for _, u := range unmatched {
		ids[u.UnmatchedRecord.Job.JobID] = true
	}
	return ids, nil
}

// WriteCheckpoint deletes any existing checkpoint for cp.WorkflowType before
// inserting the new one, so the last write wins and stale checkpoints never
// accumulate.
func (s *Store) WriteCheckpoint(ctx context.Context, cp models.Checkpoint) error {
	if err := s.db.store.DeleteMatching(&checkpointRecord{}, badgerhold.Where("WorkflowType").Eq(cp.WorkflowType)); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("%w: clear prior checkpoint: %v", store.ErrUnavailable, err)
	}

	rec := checkpointRecord{WorkflowType: cp.WorkflowType, Checkpoint: cp, StoredAt: time.Now()}
	if err := s.db.store.Insert(badgerhold.NextSequence(), &rec); err != nil {
		return fmt.Errorf("%w: write checkpoint: %v", store.ErrUnavailable, err)
	}
	return nil
}

// ReadLatestCheckpoint returns the most recently written checkpoint for
// workflowType.
func (s *Store) ReadLatestCheckpoint(ctx context.Context, workflowType string) (models.Checkpoint, error) {
	var records []checkpointRecord
	q := badgerhold.Where("WorkflowType").Eq(workflowType).SortBy("StoredAt").Reverse().Limit(1)
	if err := s.db.store.Find(&records, q); err != nil {
		return models.Checkpoint{}, fmt.Errorf("%w: read checkpoint: %v", store.ErrUnavailable, err)
	}
	if len(records) == 0 {
		return models.Checkpoint{}, store.ErrNotFound
	}
	return records[0].Checkpoint, nil
}

// CountMatches returns the number of persisted match records.
func (s *Store) CountMatches(ctx context.Context) (int, error) {
	n, err := s.db.store.Count(&matchRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: count matches: %v", store.ErrUnavailable, err)
	}
	return int(n), nil
}

// CountUnmatched returns the number of persisted unmatched records.
func (s *Store) CountUnmatched(ctx context.Context) (int, error) {
	n, err := s.db.store.Count(&unmatchedRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: count unmatched: %v", store.ErrUnavailable, err)
	}
	return int(n), nil
}

// SeedJob and SeedResume are test/bootstrap helpers that upsert a Job/Resume
// directly, standing in for the external ingestion pipeline this engine
// does not own.
func (s *Store) SeedJob(job models.Job) error {
	return s.db.store.Upsert(job.ID, &jobRecord{Job: job})
}

func (s *Store) SeedResume(resume models.Resume) error {
	return s.db.store.Upsert(resume.ID, &resumeRecord{Resume: resume})
}

var _ store.DocumentStore = (*Store)(nil)
