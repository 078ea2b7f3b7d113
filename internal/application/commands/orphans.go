package commands

import (
	"context"
	"fmt"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
)

// OrphansResult contains the orphan analysis
type OrphansResult struct {
	Suspects []domain.OrphanSuspect
	Message  string
}

// OrphansCommand analyzes a compiled graph for orphaned sections whose
// inbound references were likely misread into a look-alike id
type OrphansCommand struct {
	GraphPath  string
	Range      domain.Range
	MinInbound int
}

// NewOrphansCommand creates a new OrphansCommand
func NewOrphansCommand(graphPath string, rng domain.Range) *OrphansCommand {
	return &OrphansCommand{
		GraphPath: graphPath,
		Range:     rng,
	}
}

// Validate checks if the orphans operation is valid
func (c *OrphansCommand) Validate() error {
	if c.GraphPath == "" {
		return &application.ValidationError{
			Field:   "graphPath",
			Message: "graph path is required",
		}
	}
	if c.MinInbound < 0 {
		return &application.ValidationError{
			Field:   "minInbound",
			Message: "minimum inbound count cannot be negative",
		}
	}
	return nil
}

// Execute runs the orphans command
func (c *OrphansCommand) Execute(ctx context.Context) (*OrphansResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	graph, err := LoadGraph(c.GraphPath)
	if err != nil {
		return nil, err
	}
	graph.ExpectedRange = c.Range

	suspects := application.AnalyzeOrphans(graph, c.MinInbound)

	return &OrphansResult{
		Suspects: suspects,
		Message:  fmt.Sprintf("Found %d orphan suspects", len(suspects)),
	}, nil
}
