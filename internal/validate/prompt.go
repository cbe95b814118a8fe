package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/matchengine/internal/models"
	"github.com/ternarybob/matchengine/internal/recall"
)

const descriptionLimit = 1500

// maxCandidates bounds how many recall survivors are ever sent to the LLM
// in one prompt, independent of RecallConfig.TopK.
const maxCandidates = 3

// buildPrompt renders the job and candidate shortlist into the structured
// evaluation prompt the validator LLM is expected to answer in JSON.
func buildPrompt(job models.Job, candidates []recall.Candidate, validationThreshold int) string {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert technical recruiter evaluating multiple candidates for a job posting.\n\n")
	fmt.Fprintf(&b, "JOB DETAILS:\n")
	fmt.Fprintf(&b, "Title: %s\n", orUnknown(job.Title))
	fmt.Fprintf(&b, "Company: %s\n", orUnknown(job.Company))
	fmt.Fprintf(&b, "Description: %s\n", truncate(job.Description, descriptionLimit))
	fmt.Fprintf(&b, "Required Skills: %s\n", joinOrNotSpecified(job.RequiredSkills))
	fmt.Fprintf(&b, "Required Experience: %s\n", orNotSpecified(job.RequiredExperience))
	fmt.Fprintf(&b, "Required Education: %s\n", orNotSpecified(job.RequiredEducation))
	fmt.Fprintf(&b, "\nCANDIDATE RESUMES:\n")

	for i, c := range candidates {
		fmt.Fprintf(&b, "\nCANDIDATE %d:\n", i+1)
		fmt.Fprintf(&b, "ID: %s\n", c.Resume.ID)
		fmt.Fprintf(&b, "Experience Level: %s\n", orUnknown(c.Resume.KeyMetrics.ExperienceLevel))
		fmt.Fprintf(&b, "Primary Industry: %s\n", orUnknown(c.Resume.KeyMetrics.PrimaryIndustry))
		fmt.Fprintf(&b, "Total Experience: %v years\n", totalExperience(c.Resume.KeyMetrics.TotalExperienceYears))
		fmt.Fprintf(&b, "Similarity Score: %.2f\n", c.SimilarityScore)
		fmt.Fprintf(&b, "Skills: %s\n", jsonOrNotSpecified(c.Resume.ResumeData.Skills))
		fmt.Fprintf(&b, "Work Experience: %s\n", jsonOrNotSpecified(c.Resume.ResumeData.WorkExperience))
		fmt.Fprintf(&b, "Education: %s\n", jsonOrNotSpecified(c.Resume.ResumeData.Education))
	}

	fmt.Fprintf(&b, `
TASK: Evaluate all candidates and:
1. Score each candidate from 0-100 based on job fit
2. Rank candidates from best to worst match
3. Provide specific reasoning for each candidate
4. Consider skills match, experience relevance, and overall fit

Return ONLY a valid JSON object with this structure:
{
    "candidates": [
        {
            "candidate_id": "<resume_id>",
            "rank": <number>,
            "score": <0-100>,
            "summary": "<one sentence summary of match quality>",
            "is_valid": <true if score >= %d, false otherwise>
        },
        ...
    ],
    "best_match": "<resume_id of best candidate>"
}

Do not include any other text or formatting.
`, validationThreshold)

	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func joinOrNotSpecified(ss []string) string {
	if len(ss) == 0 {
		return "Not specified"
	}
	return strings.Join(ss, ", ")
}

func jsonOrNotSpecified(v interface{}) string {
	switch vv := v.(type) {
	case []string:
		if len(vv) == 0 {
			return "Not specified"
		}
	case []map[string]interface{}:
		if len(vv) == 0 {
			return "Not specified"
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "Not specified"
	}
	return string(b)
}

func totalExperience(years float64) string {
	if years == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%g", years)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
