package domain

import "time"

// IndexNode represents a cached graph node in the link index.
type IndexNode struct {
	ID       string // canonical section id (primary key)
	Type     SectionType
	Gameplay bool
	EndGame  bool
	Stub     StubReason // empty for real sections
	Targets  int        // outgoing edge count
	Excerpt  string     // leading text, for display
}

// Edge represents one navigation link between sections.
type Edge struct {
	SourceID string // section containing the reference
	TargetID string // referenced section
	Kind     string // event kind that produced the edge
}

// SyncStats holds statistics from an index sync operation.
type SyncStats struct {
	NodesAdded   int
	NodesDeleted int
	EdgesAdded   int
	EdgesDeleted int
	Duration     time.Duration
}
