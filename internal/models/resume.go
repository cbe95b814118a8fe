package models

// KeyMetrics is the derived summary of a resume used during recall and
// prompt construction, kept as a small typed projection rather than reaching
// into the raw payload every time it is needed.
type KeyMetrics struct {
	ExperienceLevel     string  `json:"experience_level"`
	PrimaryIndustry     string  `json:"primary_industry_sector"`
	TotalExperienceYears float64 `json:"total_experience_years"`
}

// ResumeData is the typed projection of a resume's structured payload. The
// original document tolerates loosely-nested, occasionally double-nested
// sections; Raw preserves that document for prompt construction while the
// named fields give business logic a stable shape to depend on.
type ResumeData struct {
	Basics         map[string]interface{}   `json:"basics,omitempty"`
	WorkExperience []map[string]interface{} `json:"work_experience,omitempty"`
	Education      []map[string]interface{} `json:"education,omitempty"`
	Skills         []string                 `json:"skills,omitempty"`

	// Raw carries the untouched source document for LLM-prompt construction
	// when a section doesn't map cleanly onto the typed fields above.
	Raw map[string]interface{} `json:"-"`
}

// Resume is a candidate document. Created and embedded externally; immutable
// from this module's perspective.
type Resume struct {
	ID             string     `json:"_id"`
	FileID         string     `json:"file_id"`
	ResumeData     ResumeData `json:"resume_data"`
	KeyMetrics     KeyMetrics `json:"key_metrics"`
	IndustryPrefix string     `json:"industry_prefix"`
	Embedding      []float32  `json:"text_embedding"`
}

// Eligible reports whether the resume carries a usable embedding.
func (r Resume) Eligible() bool {
	return len(r.Embedding) > 0
}
