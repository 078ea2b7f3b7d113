package commands

import (
	"context"
	"fmt"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// IndexResult contains the result of rebuilding the link index
type IndexResult struct {
	Stats   *domain.SyncStats
	Message string
}

// IndexCommand rebuilds the SQLite link index from a compiled graph
type IndexCommand struct {
	index     ports.GraphIndex
	GraphPath string
}

// NewIndexCommand creates a new IndexCommand
func NewIndexCommand(index ports.GraphIndex, graphPath string) *IndexCommand {
	return &IndexCommand{
		index:     index,
		GraphPath: graphPath,
	}
}

// Validate checks if the index operation is valid
func (c *IndexCommand) Validate() error {
	if c.index == nil {
		return &application.ValidationError{
			Field:   "index",
			Message: "graph index is required",
		}
	}
	if c.GraphPath == "" {
		return &application.ValidationError{
			Field:   "graphPath",
			Message: "graph path is required",
		}
	}
	return nil
}

// Execute runs the index command
func (c *IndexCommand) Execute(ctx context.Context) (*IndexResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	graph, err := LoadGraph(c.GraphPath)
	if err != nil {
		return nil, err
	}

	stats, err := c.index.Sync(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to sync index: %w", err)
	}

	return &IndexResult{
		Stats: stats,
		Message: fmt.Sprintf("Indexed %d nodes, %d edges in %s",
			stats.NodesAdded, stats.EdgesAdded, stats.Duration.Round(0)),
	}, nil
}
