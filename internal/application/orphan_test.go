package application

import (
	"testing"

	"bookgraph/internal/domain"
)

func TestAnalyzeOrphans_ShapeConfusedSuspect(t *testing.T) {
	// Three sections reference 397; 307 exists but nothing points at it.
	// A 9-read-as-0 misprint would explain the imbalance.
	g := assembleValid(t,
		gameplaySection("1", "2", "3", "397"),
		gameplaySection("2", "397"),
		gameplaySection("3", "397"),
		gameplaySection("397", "398"),
		deathSection("398"),
		deathSection("307"),
	)

	suspects := AnalyzeOrphans(g, 0)
	if len(suspects) != 1 {
		t.Fatalf("expected 1 suspect, got %+v", suspects)
	}
	s := suspects[0]
	if s.OrphanID != "307" || s.SuspectTarget != "397" || s.InboundCount != 3 {
		t.Errorf("suspect = %+v, want 307 -> 397 with 3 inbound", s)
	}
}

func TestAnalyzeOrphans_StartIsNeverOrphan(t *testing.T) {
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
	)
	for _, s := range AnalyzeOrphans(g, 0) {
		if s.OrphanID == g.StartID {
			t.Errorf("start section flagged as orphan: %+v", s)
		}
	}
}

func TestAnalyzeOrphans_ThresholdFiltersThinSuspects(t *testing.T) {
	// 397 has only one inbound reference, below the default threshold.
	g := assembleValid(t,
		gameplaySection("1", "397"),
		gameplaySection("397", "1"),
		deathSection("307"),
	)
	if suspects := AnalyzeOrphans(g, 0); len(suspects) != 0 {
		t.Errorf("expected no suspects below threshold, got %+v", suspects)
	}
	if suspects := AnalyzeOrphans(g, 1); len(suspects) != 1 {
		t.Errorf("expected suspect at threshold 1, got %+v", suspects)
	}
}

func TestAnalyzeOrphans_OutOfRangeCandidatesExcluded(t *testing.T) {
	// 399's confusable neighbors include 899, outside a 1-400 book.
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
		deathSection("399"),
	)
	for _, s := range AnalyzeOrphans(g, 0) {
		if s.OrphanID == "399" && s.SuspectTarget == "899" {
			t.Errorf("out-of-range suspect: %+v", s)
		}
	}
}

func TestAnalyzeOrphans_NonNumericIDsSkipped(t *testing.T) {
	intro := &domain.CompiledSection{
		Section: domain.Section{ID: "intro", RawText: "Welcome.", Gameplay: false, Type: domain.SectionTypeIntro},
	}
	g := assembleValid(t,
		gameplaySection("1", "2"),
		deathSection("2"),
		intro,
	)
	for _, s := range AnalyzeOrphans(g, 0) {
		if s.OrphanID == "intro" {
			t.Errorf("non-gameplay section flagged: %+v", s)
		}
	}
}
