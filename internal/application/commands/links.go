package commands

import (
	"context"
	"fmt"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// LinksResult contains the edges touching a section
type LinksResult struct {
	Inbound  []domain.Edge
	Outbound []domain.Edge
	Message  string
}

// LinksCommand queries the link index for references to and from a section
type LinksCommand struct {
	index     ports.GraphIndex
	SectionID string
}

// NewLinksCommand creates a new LinksCommand
func NewLinksCommand(index ports.GraphIndex, sectionID string) *LinksCommand {
	return &LinksCommand{
		index:     index,
		SectionID: sectionID,
	}
}

// Validate checks if the links operation is valid
func (c *LinksCommand) Validate() error {
	if c.index == nil {
		return &application.ValidationError{
			Field:   "index",
			Message: "graph index is required",
		}
	}
	if c.SectionID == "" {
		return &application.ValidationError{
			Field:   "sectionID",
			Message: "section ID is required",
		}
	}
	return nil
}

// Execute runs the links command
func (c *LinksCommand) Execute(ctx context.Context) (*LinksResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	inbound, err := c.index.FindReferencesTo(c.SectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inbound links: %w", err)
	}
	outbound, err := c.index.FindReferencesFrom(c.SectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbound links: %w", err)
	}

	return &LinksResult{
		Inbound:  inbound,
		Outbound: outbound,
		Message: fmt.Sprintf("Section %s: %d inbound, %d outbound",
			c.SectionID, len(inbound), len(outbound)),
	}, nil
}
