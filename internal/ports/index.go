package ports

import "bookgraph/internal/domain"

// GraphIndex provides cached access to the compiled graph's node and edge
// structure. Query operations should be O(1) or O(log n) via database
// indexes.
type GraphIndex interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Sync replaces the index contents with the given graph.
	Sync(g *domain.Graph) (*domain.SyncStats, error)

	// Node queries
	GetNode(id string) (*domain.IndexNode, error)
	CountNodes() (int, error)

	// Edge queries (link graph)
	FindReferencesTo(targetID string) ([]domain.Edge, error)
	FindReferencesFrom(sourceID string) ([]domain.Edge, error)
	InboundCounts() (map[string]int, error)

	// Batch updates
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic index updates.
type IndexTx interface {
	UpsertNode(node *domain.IndexNode) error
	DeleteNode(id string) error

	DeleteEdgesFrom(sourceID string) error
	InsertEdge(edge *domain.Edge) error

	Commit() error
	Rollback() error
}
