package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(arbor.NewLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestListEligibleJobsFiltersIneligible(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedJob(models.Job{ID: "j1", Embedding: []float32{0.1}, Extracted: true}))
	require.NoError(t, s.SeedJob(models.Job{ID: "j2", Embedding: nil, Extracted: true}))
	require.NoError(t, s.SeedJob(models.Job{ID: "j3", Embedding: []float32{0.1}, Extracted: false}))

	jobs, err := s.ListEligibleJobs(ctx, store.JobQuery{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)
}

func TestListEligibleJobsExcludesProcessed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedJob(models.Job{ID: "j1", Embedding: []float32{0.1}, Extracted: true}))
	require.NoError(t, s.SeedJob(models.Job{ID: "j2", Embedding: []float32{0.1}, Extracted: true}))

	jobs, err := s.ListEligibleJobs(ctx, store.JobQuery{ExcludeProcessed: []string{"j1"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j2", jobs[0].ID)
}

func TestListResumesByIndustryFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedResume(models.Resume{ID: "r1", IndustryPrefix: "ITC", Embedding: []float32{1, 0}}))
	require.NoError(t, s.SeedResume(models.Resume{ID: "r2", IndustryPrefix: "CCC", Embedding: []float32{0, 1}}))

	resumes, err := s.ListResumesByIndustry(ctx, []string{"ITC"})
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, "r1", resumes[0].ID)

	all, err := s.ListResumesByIndustry(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestVectorSearchRanksByCosineSimilarity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedResume(models.Resume{ID: "r1", Embedding: []float32{1, 0}}))
	require.NoError(t, s.SeedResume(models.Resume{ID: "r2", Embedding: []float32{0, 1}}))

	results, err := s.VectorSearch(ctx, []float32{1, 0}, []string{"r1", "r2"}, 10, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r1", results[0].Resume.ID)
	assert.InDelta(t, 1.0, results[0].RawScore, 1e-9)
	assert.InDelta(t, 0.0, results[1].RawScore, 1e-9)
}

func TestInsertMatchIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := models.MatchRecord{Job: models.JobSnapshot{JobID: "j1"}, WorkflowRun: "run1"}
	require.NoError(t, s.InsertMatch(ctx, rec))
	require.NoError(t, s.InsertMatch(ctx, rec))

	count, err := s.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckpointLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteCheckpoint(ctx, models.Checkpoint{WorkflowType: "match", ProcessedJobIDs: []string{"j1"}}))
	require.NoError(t, s.WriteCheckpoint(ctx, models.Checkpoint{WorkflowType: "match", ProcessedJobIDs: []string{"j1", "j2"}}))

	cp, err := s.ReadLatestCheckpoint(ctx, "match")
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j2"}, cp.ProcessedJobIDs)
}

func TestReadLatestCheckpointNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReadLatestCheckpoint(context.Background(), "match")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProcessedJobIDsUnionsMatchesAndUnmatched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMatch(ctx, models.MatchRecord{Job: models.JobSnapshot{JobID: "j1"}, WorkflowRun: "run1"}))
	require.NoError(t, s.InsertUnmatched(ctx, models.UnmatchedRecord{Job: models.JobSnapshot{JobID: "j2"}, WorkflowRun: "run1"}))

	ids, err := s.ProcessedJobIDs(ctx)
	require.NoError(t, err)
	assert.True(t, ids["j1"])
	assert.True(t, ids["j2"])
	assert.False(t, ids["j3"])
}
