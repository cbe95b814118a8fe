package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// candidateResult is one LLM-scored entry from the validation response.
type candidateResult struct {
	CandidateID string `json:"candidate_id"`
	Rank        int    `json:"rank"`
	Score       int    `json:"score"`
	Summary     string `json:"summary"`
	IsValid     bool   `json:"is_valid"`
}

// validationResponse is the LLM's full structured answer for one job's
// candidate set.
type validationResponse struct {
	Candidates []candidateResult `json:"candidates"`
	BestMatch  string            `json:"best_match"`
}

// stripFence removes a single leading/trailing ```json or ``` fenced code
// block if present, mirroring how the LLM is prone to wrap JSON answers
// despite being asked not to.
func stripFence(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
		return strings.TrimSpace(text[start:])
	}
	if idx := strings.Index(text, "```"); idx != -1 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
		return strings.TrimSpace(text[start:])
	}
	return text
}

// parseResponse parses and schema-checks the LLM's raw response text. A
// malformed response is a validation failure, never silently downgraded to
// an empty shortlist: the caller surfaces this as a terminal
// ValidationError state rather than guessing at partial results.
func parseResponse(raw string) (validationResponse, error) {
	cleaned := stripFence(raw)

	var resp validationResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return validationResponse{}, fmt.Errorf("failed to parse LLM validation response as JSON: %w", err)
	}

	if resp.Candidates == nil {
		return validationResponse{}, fmt.Errorf("LLM validation response missing required field: candidates")
	}
	if strings.TrimSpace(resp.BestMatch) == "" {
		return validationResponse{}, fmt.Errorf("LLM validation response missing required field: best_match")
	}

	for _, c := range resp.Candidates {
		if strings.TrimSpace(c.CandidateID) == "" {
			return validationResponse{}, fmt.Errorf("LLM validation response candidate missing candidate_id")
		}
	}

	return resp, nil
}
