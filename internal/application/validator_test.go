package application

import (
	"reflect"
	"testing"

	"bookgraph/internal/domain"
)

func assembleValid(t *testing.T, sections ...*domain.CompiledSection) *domain.Graph {
	t.Helper()
	g, err := Assemble(sections, AssembleOptions{Range: testRange, AllowStubs: true})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return g
}

func TestValidate_CleanGraph(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
	)

	rep := Validate(g)
	if !rep.Valid {
		t.Fatalf("expected valid graph: %+v", rep)
	}
	if len(rep.Warnings) != 0 || len(rep.Errors) != 0 {
		t.Errorf("expected clean report, got warnings %v errors %v", rep.Warnings, rep.Errors)
	}
	if rep.TotalSections != 2 {
		t.Errorf("TotalSections = %d, want 2", rep.TotalSections)
	}
}

func TestValidate_StubsCountAsNoText(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2", "3"),
		deathSection("2"),
	)

	rep := Validate(g)
	if !rep.Valid {
		t.Fatalf("stub warnings must not invalidate: %+v", rep.Errors)
	}
	found := false
	for _, id := range rep.NoTextSections {
		if id == "3" {
			found = true
		}
	}
	if !found {
		t.Errorf("stub 3 should be flagged as no-text: %v", rep.NoTextSections)
	}
	// Stubs are exempt from the no-choices check.
	for _, id := range rep.NoChoiceSections {
		if id == "3" {
			t.Errorf("stub should not be flagged as no-choices: %v", rep.NoChoiceSections)
		}
	}
}

func TestValidate_DeadEndFlagged(t *testing.T) {
	deadEnd := gameplaySection("2") // no targets, no terminal
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deadEnd,
	)

	rep := Validate(g)
	if len(rep.NoChoiceSections) != 1 || rep.NoChoiceSections[0] != "2" {
		t.Errorf("NoChoiceSections = %v, want [2]", rep.NoChoiceSections)
	}
	if !rep.Valid {
		t.Error("dead ends are warnings, not errors")
	}
}

func TestValidate_EndGameNotFlagged(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
	)

	rep := Validate(g)
	if len(rep.NoChoiceSections) != 0 {
		t.Errorf("end-game sections are not dead ends: %v", rep.NoChoiceSections)
	}
}

func TestValidate_Unreachable(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
		gameplaySection("3", "2"), // nothing points at 3
	)

	rep := Validate(g)
	if len(rep.Unreachable) != 1 || rep.Unreachable[0] != "3" {
		t.Errorf("Unreachable = %v, want [3]", rep.Unreachable)
	}
	if !rep.Valid {
		t.Error("unreachable sections are warnings, not errors")
	}
}

func TestValidate_DuplicatesAreErrors(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
		deathSection("2"),
	)

	rep := Validate(g)
	if rep.Valid {
		t.Fatal("duplicates must invalidate the graph")
	}
	if len(rep.Duplicates) != 1 || rep.Duplicates[0] != "2" {
		t.Errorf("Duplicates = %v, want [2]", rep.Duplicates)
	}
}

// Reachability computed independently of the validator's walk must agree
// with the report.
func TestValidate_ReachabilityCrossCheck(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2", "3"),
		gameplaySection("2", "4"),
		gameplaySection("3", "4"),
		deathSection("4"),
		gameplaySection("10", "11"),
		deathSection("11"),
	)

	reachable := map[string]bool{}
	var visit func(id string)
	visit = func(id string) {
		if reachable[id] {
			return
		}
		node, ok := g.Nodes[id]
		if !ok {
			return
		}
		reachable[id] = true
		for _, t := range node.Nav.Targets {
			visit(t)
		}
	}
	visit(g.StartID)

	var wantUnreachable []string
	for _, id := range g.IDs() {
		if g.Nodes[id].Gameplay && !reachable[id] {
			wantUnreachable = append(wantUnreachable, id)
		}
	}

	rep := Validate(g)
	if !reflect.DeepEqual(rep.Unreachable, wantUnreachable) {
		t.Errorf("Unreachable = %v, want %v", rep.Unreachable, wantUnreachable)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	build := func() *domain.ValidationReport {
		g := assembleValid(t,
			gameplaySection("1", "2", "5"),
			gameplaySection("2", "4"),
			deathSection("4"),
			gameplaySection("7", "4"),
		)
		return Validate(g)
	}

	want := build()
	for i := 0; i < 10; i++ {
		if got := build(); !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: reports differ\n%+v\n%+v", i, got, want)
		}
	}
}

func TestPathFromStart(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2", "3"),
		gameplaySection("2", "4"),
		gameplaySection("3", "4"),
		deathSection("4"),
	)

	path := PathFromStart(g, "4")
	if len(path) != 3 || path[0] != "1" || path[2] != "4" {
		t.Errorf("path = %v, want length-3 path from 1 to 4", path)
	}
	if got := PathFromStart(g, "1"); len(got) != 1 || got[0] != "1" {
		t.Errorf("path to start = %v", got)
	}
	g2 := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
		gameplaySection("9", "2"),
	)
	if got := PathFromStart(g2, "9"); got != nil {
		t.Errorf("unreachable section should yield nil path, got %v", got)
	}
}
