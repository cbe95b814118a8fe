package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFenceJSON(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	assert.Equal(t, `{"a":1}`, stripFence(in))
}

func TestStripFencePlain(t *testing.T) {
	in := "```\n{\"a\":1}\n```"
	assert.Equal(t, `{"a":1}`, stripFence(in))
}

func TestStripFenceNoFence(t *testing.T) {
	in := `{"a":1}`
	assert.Equal(t, `{"a":1}`, stripFence(in))
}

func TestParseResponseValid(t *testing.T) {
	raw := `{
		"candidates": [
			{"candidate_id": "r1", "rank": 1, "score": 90, "summary": "great fit", "is_valid": true}
		],
		"best_match": "r1"
	}`
	resp, err := parseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.BestMatch)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, 90, resp.Candidates[0].Score)
}

func TestParseResponseMissingCandidates(t *testing.T) {
	_, err := parseResponse(`{"best_match": "r1"}`)
	assert.Error(t, err)
}

func TestParseResponseMissingBestMatch(t *testing.T) {
	_, err := parseResponse(`{"candidates": []}`)
	assert.Error(t, err)
}

func TestParseResponseInvalidJSON(t *testing.T) {
	_, err := parseResponse("not json at all")
	assert.Error(t, err)
}
