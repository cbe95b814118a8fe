package models

// Job is a posting to match against the resume corpus. Jobs are created and
// embedded by external scrapers/extractors; this package never mutates one.
type Job struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	JobLink     string    `json:"job_link"`
	LinkType    string    `json:"link_type"`
	SearchTerm  string    `json:"search_term"`
	Cycle       string    `json:"cycle"`
	Embedding   []float32 `json:"jd_embedding"`
	Extracted   bool      `json:"jd_extraction"`

	RequiredSkills     []string `json:"required_skills,omitempty"`
	RequiredExperience string   `json:"required_experience,omitempty"`
	RequiredEducation  string   `json:"required_education,omitempty"`
}

// Eligible reports whether the job carries a usable embedding and was
// successfully extracted upstream. Only eligible jobs may enter recall.
func (j Job) Eligible() bool {
	return len(j.Embedding) > 0 && j.Extracted
}
