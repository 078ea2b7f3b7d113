package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"bookgraph/internal/domain"
)

// GraphProvider hands out the compiled graph and its validation report.
type GraphProvider interface {
	Graph() (*domain.Graph, error)
	Report() (*domain.ValidationReport, error)
}

// FileProvider loads graph.json and report.json lazily and caches them for
// the lifetime of the server process.
type FileProvider struct {
	GraphPath  string
	ReportPath string

	mu     sync.Mutex
	graph  *domain.Graph
	report *domain.ValidationReport
}

// NewFileProvider creates a provider over compiled output files
func NewFileProvider(graphPath, reportPath string) *FileProvider {
	return &FileProvider{GraphPath: graphPath, ReportPath: reportPath}
}

// Invalidate drops the cached artifacts so the next query reloads them.
func (p *FileProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.graph = nil
	p.report = nil
}

// Graph returns the cached compiled graph, loading it on first use
func (p *FileProvider) Graph() (*domain.Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.graph != nil {
		return p.graph, nil
	}

	data, err := os.ReadFile(p.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	var g domain.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	p.graph = &g
	return p.graph, nil
}

// Report returns the cached validation report, loading it on first use
func (p *FileProvider) Report() (*domain.ValidationReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.report != nil {
		return p.report, nil
	}

	data, err := os.ReadFile(p.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var rep domain.ValidationReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	p.report = &rep
	return p.report, nil
}
