package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"bookgraph/internal/domain"
)

// gameplaySection builds a compiled section with one choice per target.
func gameplaySection(id string, targets ...string) *domain.CompiledSection {
	sec := &domain.CompiledSection{
		Section: domain.Section{
			ID:       id,
			RawText:  "Section " + id + " text.",
			Gameplay: true,
			Type:     domain.SectionTypeSection,
		},
	}
	for _, t := range targets {
		sec.Sequence = append(sec.Sequence, domain.Choice{Target: domain.TargetOutcome(t)})
	}
	sec.Nav = domain.Summarize(sec.Sequence)
	return sec
}

// deathSection builds a compiled section that ends the adventure.
func deathSection(id string) *domain.CompiledSection {
	sec := &domain.CompiledSection{
		Section: domain.Section{
			ID:       id,
			RawText:  "You die here.",
			Gameplay: true,
			Type:     domain.SectionTypeSection,
		},
		Sequence: []domain.Event{
			domain.Death{Outcome: domain.TerminalOutcome(domain.TerminalDeath, "dead"), Description: "dead"},
		},
	}
	sec.Nav = domain.Summarize(sec.Sequence)
	return sec
}

func TestAssemble_RefusesUnexplainedGaps(t *testing.T) {
	sections := []*domain.CompiledSection{
		gameplaySection("1", "2", "3"),
		gameplaySection("2", "1"),
	}

	_, err := Assemble(sections, AssembleOptions{Range: testRange})
	if !errors.Is(err, ErrMissingTargets) {
		t.Fatalf("expected missing targets error, got %v", err)
	}
	var missErr *MissingTargetsError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected *MissingTargetsError, got %T", err)
	}
	if len(missErr.IDs) != 1 || missErr.IDs[0] != "3" {
		t.Errorf("IDs = %v, want [3]", missErr.IDs)
	}
}

func TestAssemble_EnumeratesEveryMissingID(t *testing.T) {
	sections := []*domain.CompiledSection{
		gameplaySection("1", "30", "7", "201"),
	}

	_, err := Assemble(sections, AssembleOptions{Range: testRange})
	var missErr *MissingTargetsError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected *MissingTargetsError, got %v", err)
	}
	want := []string{"7", "30", "201"}
	if len(missErr.IDs) != len(want) {
		t.Fatalf("IDs = %v, want %v", missErr.IDs, want)
	}
	for i := range want {
		if missErr.IDs[i] != want[i] {
			t.Errorf("IDs[%d] = %s, want %s", i, missErr.IDs[i], want[i])
		}
	}
}

func TestAssemble_BackfillsStubs(t *testing.T) {
	sections := []*domain.CompiledSection{
		gameplaySection("1", "2", "3"),
		gameplaySection("2", "1"),
	}

	g, err := Assemble(sections, AssembleOptions{Range: testRange, AllowStubs: true})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	stub, ok := g.Nodes["3"]
	if !ok || !stub.Stub() {
		t.Fatalf("missing target not stubbed: %+v", g.Nodes)
	}
	if stub.StubReason != domain.StubBackfilledMissingTarget {
		t.Errorf("reason = %s", stub.StubReason)
	}
	if g.StubIDs["3"] != domain.StubBackfilledMissingTarget {
		t.Errorf("StubIDs = %v", g.StubIDs)
	}

	// Graph closure: every target has a node.
	for _, id := range g.IDs() {
		for _, tgt := range g.Nodes[id].Nav.Targets {
			if _, ok := g.Nodes[tgt]; !ok {
				t.Errorf("target %s of %s has no node", tgt, id)
			}
		}
	}
}

func TestAssemble_VerifiedMissingStubsWithoutAllowStubs(t *testing.T) {
	sections := []*domain.CompiledSection{
		gameplaySection("1", "287"),
	}

	g, err := Assemble(sections, AssembleOptions{
		Range:           testRange,
		VerifiedMissing: []string{"287"},
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	stub := g.Nodes["287"]
	if stub == nil || stub.StubReason != domain.StubVerifiedMissing {
		t.Errorf("expected verified-missing stub, got %+v", stub)
	}
}

func TestAssemble_DropsOutOfRangeTargets(t *testing.T) {
	one := gameplaySection("1", "2")
	one.Sequence = append(one.Sequence, domain.Choice{Target: domain.TargetOutcome("999")})
	one.Nav = domain.Summarize(one.Sequence)

	g, err := Assemble([]*domain.CompiledSection{one, gameplaySection("2")}, AssembleOptions{
		Range:      testRange,
		AllowStubs: true,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if _, ok := g.Nodes["999"]; ok {
		t.Error("out-of-range target should not be stubbed")
	}
	for _, tgt := range g.Nodes["1"].Nav.Targets {
		if tgt == "999" {
			t.Error("out-of-range target not pruned")
		}
	}
}

func TestAssemble_StartPreference(t *testing.T) {
	sections := func() []*domain.CompiledSection {
		return []*domain.CompiledSection{
			gameplaySection("2", "5"),
			gameplaySection("5", "2"),
		}
	}

	g, err := Assemble(sections(), AssembleOptions{Range: testRange, StartID: "5"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if g.StartID != "5" {
		t.Errorf("configured start ignored: %s", g.StartID)
	}

	g, err = Assemble(sections(), AssembleOptions{Range: testRange})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if g.StartID != "2" {
		t.Errorf("smallest numeric gameplay id should win: %s", g.StartID)
	}

	withOne := append(sections(), gameplaySection("1", "2"))
	g, err = Assemble(withOne, AssembleOptions{Range: testRange})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if g.StartID != "1" {
		t.Errorf("section 1 should win: %s", g.StartID)
	}
}

func TestAssemble_RecordsDuplicatesFirstWins(t *testing.T) {
	first := gameplaySection("7")
	first.RawText = "first"
	second := gameplaySection("7")
	second.RawText = "second"

	g, err := Assemble([]*domain.CompiledSection{first, second}, AssembleOptions{Range: testRange})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(g.Duplicates) != 1 || g.Duplicates[0] != "7" {
		t.Errorf("Duplicates = %v", g.Duplicates)
	}
	if g.Nodes["7"].RawText != "first" {
		t.Errorf("first occurrence should win: %q", g.Nodes["7"].RawText)
	}
}

func TestAssemble_NoSections(t *testing.T) {
	if _, err := Assemble(nil, AssembleOptions{Range: testRange}); !errors.Is(err, ErrNoSections) {
		t.Fatalf("expected ErrNoSections, got %v", err)
	}
}

func TestAssemble_MarksEndGame(t *testing.T) {
	g, err := Assemble([]*domain.CompiledSection{
		gameplaySection("1", "2"),
		deathSection("2"),
	}, AssembleOptions{Range: testRange})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !g.Nodes["2"].EndGame {
		t.Error("death section should be marked end game")
	}
	if g.Nodes["1"].EndGame {
		t.Error("section with targets is not end game")
	}
}

func TestAssemble_DeterministicOutput(t *testing.T) {
	build := func() ([]byte, error) {
		g, err := Assemble([]*domain.CompiledSection{
			gameplaySection("1", "2", "3"),
			gameplaySection("2", "4"),
			deathSection("4"),
		}, AssembleOptions{Range: testRange, AllowStubs: true})
		if err != nil {
			return nil, err
		}
		return json.Marshal(g)
	}

	want, err := build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := build()
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("iteration %d: serialized graphs differ", i)
		}
	}
}
