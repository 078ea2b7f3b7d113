package commands

import (
	"context"
	"fmt"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// RetranscribeResult contains proposed replacement transcriptions
type RetranscribeResult struct {
	Proposals []ports.RetranscribeResult
	Message   string
}

// RetranscribeCommand asks the AI assistant for fresh transcriptions of
// sections the validation report flagged as damaged
type RetranscribeCommand struct {
	assistant ports.Retranscriber
	graph     *domain.Graph
	report    *domain.ValidationReport
}

// NewRetranscribeCommand creates a new RetranscribeCommand
func NewRetranscribeCommand(assistant ports.Retranscriber, graph *domain.Graph, report *domain.ValidationReport) *RetranscribeCommand {
	return &RetranscribeCommand{
		assistant: assistant,
		graph:     graph,
		report:    report,
	}
}

// Validate checks if the retranscribe operation is valid
func (c *RetranscribeCommand) Validate() error {
	if c.assistant == nil || !c.assistant.IsAvailable() {
		return &application.ValidationError{
			Field:   "assistant",
			Message: "AI assistant is not available",
		}
	}
	if c.graph == nil {
		return &application.ValidationError{
			Field:   "graph",
			Message: "graph is required",
		}
	}
	if c.report == nil {
		return &application.ValidationError{
			Field:   "report",
			Message: "validation report is required",
		}
	}
	return nil
}

// Execute runs the retranscribe command
func (c *RetranscribeCommand) Execute(ctx context.Context) (*RetranscribeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	reqs := c.buildRequests()
	if len(reqs) == 0 {
		return &RetranscribeResult{Message: "Nothing to retranscribe"}, nil
	}

	proposals, err := c.assistant.Retranscribe(reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to retranscribe: %w", err)
	}

	return &RetranscribeResult{
		Proposals: proposals,
		Message:   fmt.Sprintf("Got %d transcription proposals for %d flagged sections", len(proposals), len(reqs)),
	}, nil
}

// buildRequests collects flagged sections worth a second OCR pass: empty
// text and dead ends. Stubs are skipped; there is nothing to re-read.
func (c *RetranscribeCommand) buildRequests() []ports.RetranscribeRequest {
	var reqs []ports.RetranscribeRequest
	seen := map[string]bool{}
	add := func(id, problem string) {
		if seen[id] {
			return
		}
		node, ok := c.graph.Nodes[id]
		if !ok || node.Stub() {
			return
		}
		seen[id] = true
		reqs = append(reqs, ports.RetranscribeRequest{
			SectionID: id,
			RawText:   node.RawText,
			Problem:   problem,
		})
	}
	for _, id := range c.report.NoTextSections {
		add(id, "no text")
	}
	for _, id := range c.report.NoChoiceSections {
		add(id, "no choices and does not end the game")
	}
	return reqs
}
