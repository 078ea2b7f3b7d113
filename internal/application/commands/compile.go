package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// CompileResult contains the result of compiling a book
type CompileResult struct {
	Graph    *domain.Graph
	Report   *domain.ValidationReport
	Discards []application.SectionDiscards
	Message  string
}

// CompileCommand compiles extracted sections into a validated graph
type CompileCommand struct {
	source ports.SectionSource

	Range            domain.Range
	StartID          string
	AllowStubs       bool
	VerifiedMissing  []string
	OrphanMinInbound int
	Workers          int

	// Output paths; empty paths skip the corresponding write.
	GraphPath  string
	ReportPath string
}

// NewCompileCommand creates a new CompileCommand
func NewCompileCommand(source ports.SectionSource, rng domain.Range) *CompileCommand {
	return &CompileCommand{
		source: source,
		Range:  rng,
	}
}

// Validate checks if the compile operation is valid
func (c *CompileCommand) Validate() error {
	if c.source == nil {
		return &application.ValidationError{
			Field:   "source",
			Message: "section source is required",
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

// Execute runs the compile command
func (c *CompileCommand) Execute(ctx context.Context) (*CompileResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sections, err := c.source.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}

	compiled, discards := application.CompileAll(sections, c.Range, c.Workers)

	graph, err := application.Assemble(compiled, application.AssembleOptions{
		Range:           c.Range,
		StartID:         c.StartID,
		AllowStubs:      c.AllowStubs,
		VerifiedMissing: c.VerifiedMissing,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble graph: %w", err)
	}

	report := application.Validate(graph)
	if c.OrphanMinInbound > 0 {
		report.OrphanSuspects = application.AnalyzeOrphans(graph, c.OrphanMinInbound)
	}

	if c.GraphPath != "" {
		if err := writeJSON(c.GraphPath, graph); err != nil {
			return nil, fmt.Errorf("failed to write graph: %w", err)
		}
	}
	if c.ReportPath != "" {
		if err := writeJSON(c.ReportPath, report); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	status := "valid"
	if !report.Valid {
		status = fmt.Sprintf("invalid (%d errors)", len(report.Errors))
	}
	return &CompileResult{
		Graph:    graph,
		Report:   report,
		Discards: discards,
		Message: fmt.Sprintf("Compiled %d sections (%d stubs, %d warnings): %s",
			report.TotalSections, len(graph.StubIDs), len(report.Warnings), status),
	}, nil
}

// writeJSON writes a value as indented JSON. Output is byte-identical for
// identical inputs.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadGraph restores a compiled graph from its JSON file.
func LoadGraph(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	var g domain.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	return &g, nil
}

// LoadReport restores a validation report from its JSON file.
func LoadReport(path string) (*domain.ValidationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var rep domain.ValidationReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &rep, nil
}
