package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"bookgraph/internal/domain"
	"bookgraph/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.GraphIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

// Ensure Index implements GraphIndex
var _ ports.GraphIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index at the given database path
func (idx *Index) Open(dbPath string) error {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	idx.dbPath = dbPath

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			gameplay INTEGER NOT NULL,
			end_game INTEGER NOT NULL,
			stub TEXT,
			targets INTEGER NOT NULL,
			excerpt TEXT
		);
		CREATE TABLE IF NOT EXISTS edges (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			PRIMARY KEY (source_id, target_id, kind)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	_, err = db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// GetNode retrieves a node by section id
func (idx *Index) GetNode(id string) (*domain.IndexNode, error) {
	var node domain.IndexNode
	var typ string
	var stub sql.NullString

	err := idx.db.QueryRow(`
		SELECT id, type, gameplay, end_game, stub, targets, excerpt
		FROM nodes WHERE id = ?
	`, id).Scan(&node.ID, &typ, &node.Gameplay, &node.EndGame, &stub, &node.Targets, &node.Excerpt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	node.Type = domain.ParseSectionType(typ)
	if stub.Valid {
		node.Stub = domain.StubReason(stub.String)
	}

	return &node, nil
}

// CountNodes returns the number of indexed nodes
func (idx *Index) CountNodes() (int, error) {
	var n int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&n)
	return n, err
}

// FindReferencesTo returns all edges pointing to a section id
func (idx *Index) FindReferencesTo(targetID string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_id, target_id, kind
		FROM edges WHERE target_id = ?
		ORDER BY source_id, kind
	`, targetID)
}

// FindReferencesFrom returns all edges out of a section id
func (idx *Index) FindReferencesFrom(sourceID string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_id, target_id, kind
		FROM edges WHERE source_id = ?
		ORDER BY target_id, kind
	`, sourceID)
}

func (idx *Index) queryEdges(query string, arg string) ([]domain.Edge, error) {
	rows, err := idx.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.Kind); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// InboundCounts returns, per section id, how many distinct sources link to it
func (idx *Index) InboundCounts() (map[string]int, error) {
	rows, err := idx.db.Query(`
		SELECT target_id, COUNT(DISTINCT source_id)
		FROM edges GROUP BY target_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
