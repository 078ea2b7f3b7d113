package application

import (
	"strconv"

	"bookgraph/internal/domain"
)

// AssembleOptions configures graph assembly.
type AssembleOptions struct {
	Range   domain.Range
	StartID string

	// AllowStubs authorizes backfilling placeholder nodes for referenced
	// ids that are absent from the input. Without it, unexplained gaps
	// abort assembly.
	AllowStubs bool

	// VerifiedMissing lists ids confirmed absent from the printed source
	// itself (publisher errata). They always stub, with their own reason.
	VerifiedMissing []string
}

// Assemble builds the navigation graph from compiled sections: it drops
// out-of-range targets, backfills stubs for authorized gaps, refuses
// unexplained gaps, and picks the start node. Input order never matters;
// two calls over the same sections produce identical graphs.
func Assemble(sections []*domain.CompiledSection, opts AssembleOptions) (*domain.Graph, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	g := &domain.Graph{
		Nodes:         make(map[string]*domain.CompiledSection, len(sections)),
		StubIDs:       map[string]domain.StubReason{},
		ExpectedRange: opts.Range,
	}

	dupSeen := map[string]bool{}
	for _, sec := range sections {
		if _, ok := g.Nodes[sec.ID]; ok {
			if !dupSeen[sec.ID] {
				dupSeen[sec.ID] = true
				g.Duplicates = append(g.Duplicates, sec.ID)
			}
			continue
		}
		g.Nodes[sec.ID] = sec
	}
	domain.SortIDs(g.Duplicates)

	pruneOutOfRange(g)
	markEndGame(g)

	verified := map[string]bool{}
	for _, id := range opts.VerifiedMissing {
		verified[id] = true
	}

	var unexplained []string
	for _, id := range missingTargets(g) {
		switch {
		case verified[id]:
			g.Nodes[id] = domain.NewStub(id, domain.StubVerifiedMissing)
			g.StubIDs[id] = domain.StubVerifiedMissing
		case opts.AllowStubs:
			g.Nodes[id] = domain.NewStub(id, domain.StubBackfilledMissingTarget)
			g.StubIDs[id] = domain.StubBackfilledMissingTarget
		default:
			unexplained = append(unexplained, id)
		}
	}
	if len(unexplained) > 0 {
		domain.SortIDs(unexplained)
		return nil, &MissingTargetsError{IDs: unexplained}
	}

	g.StartID = pickStart(g, opts.StartID)
	return g, nil
}

// pruneOutOfRange removes targets outside the book's numbered range from
// every navigation summary. They are OCR artifacts, not edges. Resolution
// already filters these for numeral tokens; this catches targets that
// arrived through other paths.
func pruneOutOfRange(g *domain.Graph) {
	for _, sec := range g.Nodes {
		kept := sec.Nav.Targets[:0]
		for _, t := range sec.Nav.Targets {
			if n, err := strconv.Atoi(t); err == nil && !g.ExpectedRange.Contains(n) {
				continue
			}
			kept = append(kept, t)
		}
		sec.Nav.Targets = kept
	}
}

// markEndGame flags gameplay sections that terminate the adventure: no
// outgoing targets and at least one terminal outcome.
func markEndGame(g *domain.Graph) {
	for _, sec := range g.Nodes {
		if sec.Gameplay && len(sec.Nav.Targets) == 0 && sec.Nav.Terminals > 0 {
			sec.EndGame = true
		}
	}
}

// missingTargets returns referenced ids with no node, sorted.
func missingTargets(g *domain.Graph) []string {
	seen := map[string]bool{}
	var missing []string
	for _, sec := range g.Nodes {
		for _, t := range sec.Nav.Targets {
			if _, ok := g.Nodes[t]; ok || seen[t] {
				continue
			}
			seen[t] = true
			missing = append(missing, t)
		}
	}
	domain.SortIDs(missing)
	return missing
}

// pickStart resolves the start section: the configured id when present,
// then "1", then the smallest numeric gameplay id, then the first id in
// canonical order.
func pickStart(g *domain.Graph, configured string) string {
	if configured != "" {
		if _, ok := g.Nodes[configured]; ok {
			return configured
		}
	}
	if _, ok := g.Nodes["1"]; ok {
		return "1"
	}
	var gameplay []string
	for id, sec := range g.Nodes {
		if sec.Gameplay {
			if _, err := strconv.Atoi(id); err == nil {
				gameplay = append(gameplay, id)
			}
		}
	}
	if len(gameplay) > 0 {
		domain.SortIDs(gameplay)
		return gameplay[0]
	}
	return g.IDs()[0]
}
