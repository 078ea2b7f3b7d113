package commands

import (
	"context"
	"fmt"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
)

// ValidateResult contains the result of validating a compiled graph
type ValidateResult struct {
	Report  *domain.ValidationReport
	Message string
}

// ValidateCommand re-validates a previously compiled graph
type ValidateCommand struct {
	GraphPath  string
	Range      domain.Range
	ReportPath string // empty skips the write
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(graphPath string, rng domain.Range) *ValidateCommand {
	return &ValidateCommand{
		GraphPath: graphPath,
		Range:     rng,
	}
}

// Validate checks if the validate operation is valid
func (c *ValidateCommand) Validate() error {
	if c.GraphPath == "" {
		return &application.ValidationError{
			Field:   "graphPath",
			Message: "graph path is required",
		}
	}
	if c.Range.Min <= 0 || c.Range.Max < c.Range.Min {
		return &application.ValidationError{
			Field:   "range",
			Message: fmt.Sprintf("invalid section range %d-%d", c.Range.Min, c.Range.Max),
		}
	}
	return nil
}

// Execute runs the validate command
func (c *ValidateCommand) Execute(ctx context.Context) (*ValidateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	graph, err := LoadGraph(c.GraphPath)
	if err != nil {
		return nil, err
	}
	// The serialized graph does not carry its range.
	graph.ExpectedRange = c.Range

	report := application.Validate(graph)

	if c.ReportPath != "" {
		if err := writeJSON(c.ReportPath, report); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	status := "valid"
	if !report.Valid {
		status = fmt.Sprintf("invalid (%d errors)", len(report.Errors))
	}
	return &ValidateResult{
		Report: report,
		Message: fmt.Sprintf("Validated %d sections (%d warnings): %s",
			report.TotalSections, len(report.Warnings), status),
	}, nil
}
