package sqlite

import (
	"strings"
	"time"

	"bookgraph/internal/domain"
)

const excerptLen = 80

// Sync replaces the index contents with the given graph in one transaction
func (idx *Index) Sync(g *domain.Graph) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	before, err := idx.CountNodes()
	if err != nil {
		return nil, err
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return nil, err
	}
	stats.NodesDeleted = before

	for _, id := range g.IDs() {
		node := g.Nodes[id]
		_, err := tx.Exec(`
			INSERT INTO nodes (id, type, gameplay, end_game, stub, targets, excerpt)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, string(node.Type), node.Gameplay, node.EndGame,
			nullString(string(node.StubReason)), len(node.Nav.Targets), excerpt(node.RawText))
		if err != nil {
			return nil, err
		}
		stats.NodesAdded++

		for _, e := range sectionEdges(node) {
			_, err := tx.Exec(`
				INSERT OR REPLACE INTO edges (source_id, target_id, kind)
				VALUES (?, ?, ?)
			`, e.SourceID, e.TargetID, e.Kind)
			if err != nil {
				return nil, err
			}
			stats.EdgesAdded++
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// sectionEdges flattens a section's event sequence into typed edges,
// recursing through conditional bundles and choice effects.
func sectionEdges(node *domain.CompiledSection) []domain.Edge {
	var edges []domain.Edge
	for _, ev := range node.Sequence {
		kind := string(ev.Kind())
		for _, tgt := range domain.Targets([]domain.Event{ev}) {
			edges = append(edges, domain.Edge{
				SourceID: node.ID,
				TargetID: tgt,
				Kind:     kind,
			})
		}
	}
	return edges
}

// excerpt returns the leading text of a section for display
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= excerptLen {
		return text
	}
	clipped := text[:excerptLen]
	if i := strings.LastIndex(clipped, " "); i > 0 {
		clipped = clipped[:i]
	}
	return clipped
}
