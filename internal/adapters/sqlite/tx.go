package sqlite

import (
	"database/sql"

	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertNode inserts or updates a node
func (t *indexTx) UpsertNode(node *domain.IndexNode) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO nodes (id, type, gameplay, end_game, stub, targets, excerpt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, node.ID, string(node.Type), node.Gameplay, node.EndGame,
		nullString(string(node.Stub)), node.Targets, node.Excerpt)
	return err
}

// DeleteNode removes a node by id
func (t *indexTx) DeleteNode(id string) error {
	_, err := t.tx.Exec(`DELETE FROM nodes WHERE id = ?`, id)
	return err
}

// DeleteEdgesFrom removes all edges out of a source section
func (t *indexTx) DeleteEdgesFrom(sourceID string) error {
	_, err := t.tx.Exec(`DELETE FROM edges WHERE source_id = ?`, sourceID)
	return err
}

// InsertEdge adds a new edge
func (t *indexTx) InsertEdge(edge *domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO edges (source_id, target_id, kind)
		VALUES (?, ?, ?)
	`, edge.SourceID, edge.TargetID, edge.Kind)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}

// nullString returns nil for empty strings (for nullable columns)
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
