package ports

// RetranscribeRequest asks for a fresh transcription of a problem section.
type RetranscribeRequest struct {
	SectionID string
	RawText   string // the bad OCR pass, for context
	Problem   string // what validation flagged, e.g. "no text" or "unreachable"
}

// RetranscribeResult is a proposed replacement transcription.
type RetranscribeResult struct {
	SectionID string
	Text      string
	Reasoning string
}

// Retranscriber defines the interface for AI-assisted cleanup of sections
// that validation flagged as damaged.
type Retranscriber interface {
	Retranscribe(reqs []RetranscribeRequest) ([]RetranscribeResult, error)

	// IsAvailable returns true if the assistant (e.g. Claude CLI) is available
	IsAvailable() bool
}
