package ports

import "bookgraph/internal/domain"

// SectionSource defines the interface for loading extracted sections from
// an upstream OCR/extraction stage.
type SectionSource interface {
	// Load reads every section record. Implementations must reject inputs
	// that carry the same section id twice.
	Load() ([]domain.Section, error)
}
