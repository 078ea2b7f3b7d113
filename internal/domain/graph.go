package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Graph is the assembled section graph. It exclusively owns its sections;
// validation only reads it.
type Graph struct {
	Nodes         map[string]*CompiledSection
	StartID       string
	StubIDs       map[string]StubReason
	ExpectedRange Range
	Duplicates    []string // ids seen more than once in the raw input
}

// IDs returns all node ids in canonical order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// StubTargets returns the backfilled ids in canonical order.
func (g *Graph) StubTargets() []string {
	ids := make([]string, 0, len(g.StubIDs))
	for id := range g.StubIDs {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Edges returns every target edge in the graph as (source, target) pairs,
// sorted by source then target. Terminal outcomes produce no edges.
func (g *Graph) Edges() [][2]string {
	var edges [][2]string
	for _, id := range g.IDs() {
		for _, tgt := range Targets(g.Nodes[id].Sequence) {
			edges = append(edges, [2]string{id, tgt})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return LessID(edges[i][0], edges[j][0])
		}
		return LessID(edges[i][1], edges[j][1])
	})
	return edges
}

// InboundCounts returns, per node id, how many edges point at it.
func (g *Graph) InboundCounts() map[string]int {
	counts := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges() {
		counts[e[1]]++
	}
	return counts
}

// graphSectionJSON is the serialized per-section shape of the output
// contract.
type graphSectionJSON struct {
	Text     string          `json:"text"`
	Type     SectionType     `json:"type"`
	Gameplay bool            `json:"isGameplaySection"`
	Sequence json.RawMessage `json:"sequence"`
	EndGame  bool            `json:"end_game,omitempty"`
	Status   string          `json:"status,omitempty"`
}

type graphJSON struct {
	StartSection string                      `json:"startSection"`
	StubCount    int                         `json:"stub_count"`
	StubTargets  []string                    `json:"stub_targets"`
	Sections     map[string]graphSectionJSON `json:"sections"`
}

// MarshalJSON serializes the graph per the output contract. Map keys are
// emitted in encoding/json's sorted order, so identical graphs always
// produce identical bytes.
func (g *Graph) MarshalJSON() ([]byte, error) {
	sections := make(map[string]graphSectionJSON, len(g.Nodes))
	for id, node := range g.Nodes {
		seq, err := MarshalEvents(node.Sequence)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", id, err)
		}
		sections[id] = graphSectionJSON{
			Text:     node.RawText,
			Type:     node.Type,
			Gameplay: node.Gameplay,
			Sequence: seq,
			EndGame:  node.EndGame,
			Status:   string(node.StubReason),
		}
	}
	stubs := g.StubTargets()
	if stubs == nil {
		stubs = []string{}
	}
	return json.Marshal(graphJSON{
		StartSection: g.StartID,
		StubCount:    len(g.StubIDs),
		StubTargets:  stubs,
		Sections:     sections,
	})
}

// UnmarshalJSON restores a serialized graph. Signal inputs are not part of
// the output contract and come back empty.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.StartID = raw.StartSection
	g.Nodes = make(map[string]*CompiledSection, len(raw.Sections))
	g.StubIDs = map[string]StubReason{}
	for id, s := range raw.Sections {
		seq, err := UnmarshalEvents(s.Sequence)
		if err != nil {
			return fmt.Errorf("section %s: %w", id, err)
		}
		node := &CompiledSection{
			Section: Section{
				ID:       id,
				RawText:  s.Text,
				Gameplay: s.Gameplay,
				Type:     s.Type,
			},
			Sequence:   seq,
			Nav:        Summarize(seq),
			EndGame:    s.EndGame,
			StubReason: StubReason(s.Status),
		}
		g.Nodes[id] = node
		if node.Stub() {
			g.StubIDs[id] = node.StubReason
		}
	}
	return nil
}
