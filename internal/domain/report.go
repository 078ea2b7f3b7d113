package domain

// OrphanSuspect flags a never-referenced node whose id is shape-confusable
// with a heavily referenced target, suggesting the inbound references were
// OCR-misread and belong to the orphan.
type OrphanSuspect struct {
	OrphanID      string `json:"orphan_id"`
	SuspectTarget string `json:"suspect_target"`
	InboundCount  int    `json:"inbound_count"`
}

// ValidationReport is the immutable result of integrity validation.
// Missing and duplicate sections are fatal; the remaining classes are
// warnings surfaced for manual review.
type ValidationReport struct {
	TotalSections    int             `json:"total_sections"`
	MissingSections  []string        `json:"missing_sections"`
	Duplicates       []string        `json:"duplicate_sections"`
	NoTextSections   []string        `json:"sections_with_no_text"`
	NoChoiceSections []string        `json:"sections_with_no_choices"`
	Unreachable      []string        `json:"unreachable_sections"`
	OrphanSuspects   []OrphanSuspect `json:"orphan_suspects"`
	Valid            bool            `json:"is_valid"`
	Warnings         []string        `json:"warnings"`
	Errors           []string        `json:"errors"`
}
