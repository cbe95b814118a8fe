package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
)

type fakeLLM struct {
	response string
	err      error
	gotPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt, model string) (string, error) {
	f.gotPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestValidateParsesWellFormedResponse(t *testing.T) {
	fl := &fakeLLM{response: `{
		"candidates": [
			{"candidate_id": "r1", "rank": 1, "score": 88, "summary": "strong match", "is_valid": true}
		],
		"best_match": "r1"
	}`}
	v := New(fl, config.ValidationConfig{ValidationThreshold: 70, LLMModel: "m"}, arbor.NewLogger())

	job := models.Job{ID: "j1", Title: "Engineer"}
	candidates := []recall.Candidate{{Resume: models.Resume{ID: "r1"}, SimilarityScore: 0.8}}

	result, err := v.Validate(context.Background(), job, candidates)
	require.NoError(t, err)
	assert.Equal(t, "r1", result.BestMatch)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, 88, result.Candidates[0].Score)
	assert.Contains(t, fl.gotPrompt, "Engineer")
}

func TestValidatePropagatesLLMError(t *testing.T) {
	fl := &fakeLLM{err: errors.New("upstream failure")}
	v := New(fl, config.ValidationConfig{ValidationThreshold: 70}, arbor.NewLogger())

	_, err := v.Validate(context.Background(), models.Job{ID: "j1"}, nil)
	assert.Error(t, err)
}

func TestValidatePropagatesParseError(t *testing.T) {
	fl := &fakeLLM{response: "not json"}
	v := New(fl, config.ValidationConfig{ValidationThreshold: 70}, arbor.NewLogger())

	_, err := v.Validate(context.Background(), models.Job{ID: "j1"}, nil)
	assert.Error(t, err)
}
