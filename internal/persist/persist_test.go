package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/decide"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
	"github.com/ternarybob/matchengine/internal/store"
)

type recordingStore struct {
	store.DocumentStore
	matches    []models.MatchRecord
	unmatched  []models.UnmatchedRecord
}

func (r *recordingStore) InsertMatch(ctx context.Context, rec models.MatchRecord) error {
	r.matches = append(r.matches, rec)
	return nil
}

func (r *recordingStore) InsertUnmatched(ctx context.Context, rec models.UnmatchedRecord) error {
	r.unmatched = append(r.unmatched, rec)
	return nil
}

func TestPersistMatched(t *testing.T) {
	rs := &recordingStore{}
	p := New(rs, arbor.NewLogger())

	job := models.Job{ID: "j1", Title: "Engineer"}
	candidates := []recall.Candidate{
		{Resume: models.Resume{ID: "r1", FileID: "f1"}, SimilarityScore: 0.7},
	}
	entry := models.ShortlistEntry{ResumeID: "r1", SimilarityScore: 0.7, LLMScore: 90, Rank: 1, Summary: "great", IsValid: true}
	outcome := decide.Outcome{Status: decide.StatusMatched, Shortlist: []models.ShortlistEntry{entry}, BestMatch: &entry}

	err := p.Persist(context.Background(), job, candidates, outcome, "run1", time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, rs.matches, 1)
	assert.Equal(t, "r1", rs.matches[0].ResumeID)
	assert.Equal(t, models.MatchStatusValidated, rs.matches[0].Status)
	assert.Empty(t, rs.unmatched)
}

func TestPersistNoValidMatch(t *testing.T) {
	rs := &recordingStore{}
	p := New(rs, arbor.NewLogger())

	job := models.Job{ID: "j1"}
	outcome := decide.Outcome{Status: decide.StatusNoValidMatch}

	err := p.Persist(context.Background(), job, nil, outcome, "run1", time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, rs.unmatched, 1)
	assert.Empty(t, rs.matches)
}

func TestPersistValidationErrorWritesNothing(t *testing.T) {
	rs := &recordingStore{}
	p := New(rs, arbor.NewLogger())

	outcome := decide.Outcome{Status: decide.StatusValidationError}
	err := p.Persist(context.Background(), models.Job{ID: "j1"}, nil, outcome, "run1", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Empty(t, rs.matches)
	assert.Empty(t, rs.unmatched)
}
