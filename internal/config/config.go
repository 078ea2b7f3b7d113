package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bookgraph/internal/domain"
)

const DefaultWorkspacePath = "~/Documents/bookgraph"

// WorkspacePath returns the workspace path from BOOKGRAPH_WORKSPACE env var,
// falling back to DefaultWorkspacePath.
func WorkspacePath() string {
	if env := os.Getenv("BOOKGRAPH_WORKSPACE"); env != "" {
		return env
	}
	return DefaultWorkspacePath
}

// Book is a per-book compilation profile.
type Book struct {
	Title        string `yaml:"title"`
	RangeMin     int    `yaml:"range_min"`
	RangeMax     int    `yaml:"range_max"`
	StartSection string `yaml:"start_section"`

	// AllowStubs authorizes backfilling placeholders for missing targets.
	AllowStubs bool `yaml:"allow_stubs"`

	// VerifiedMissing lists section ids confirmed absent from the printed
	// book itself. They always get placeholder nodes.
	VerifiedMissing []string `yaml:"verified_missing"`

	// OrphanMinInbound overrides the inbound threshold for orphan analysis.
	// Zero keeps the default.
	OrphanMinInbound int `yaml:"orphan_min_inbound"`
}

// Range returns the book's expected gameplay section range, defaulting to
// 1-400 when the profile leaves it unset.
func (b *Book) Range() domain.Range {
	if b.RangeMin == 0 && b.RangeMax == 0 {
		return domain.Range{Min: 1, Max: 400}
	}
	return domain.Range{Min: b.RangeMin, Max: b.RangeMax}
}

// LoadBook reads a book profile from a YAML file.
func LoadBook(path string) (*Book, error) {
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read book profile: %w", err)
	}
	var b Book
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse book profile: %w", err)
	}
	if b.RangeMax != 0 && b.RangeMax < b.RangeMin {
		return nil, fmt.Errorf("book profile has inverted range %d-%d", b.RangeMin, b.RangeMax)
	}
	return &b, nil
}

// ExpandHome resolves a leading ~ against the user's home directory.
func ExpandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
