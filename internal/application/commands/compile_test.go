package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
)

// fakeSource implements ports.SectionSource from an in-memory slice.
type fakeSource struct {
	sections []domain.Section
	err      error
}

func (f *fakeSource) Load() ([]domain.Section, error) {
	return f.sections, f.err
}

var bookRange = domain.Range{Min: 1, Max: 400}

func fixtureSections() []domain.Section {
	return []domain.Section{
		{
			ID:       "1",
			RawText:  "Turn to 2 or turn to 3.",
			Gameplay: true,
			Type:     domain.SectionTypeSection,
			Signals: domain.Signals{
				Choices: []domain.ChoiceHint{{RawTarget: "2"}, {RawTarget: "3"}},
			},
		},
		{
			ID:       "2",
			RawText:  "The troll kills you.",
			Gameplay: true,
			Type:     domain.SectionTypeSection,
			Signals: domain.Signals{
				Deaths: []domain.DeathSignal{{Description: "killed by the troll"}},
			},
		},
		{
			ID:       "3",
			RawText:  "You escape. Turn to 2.",
			Gameplay: true,
			Type:     domain.SectionTypeSection,
			Signals: domain.Signals{
				Choices: []domain.ChoiceHint{{RawTarget: "2"}},
			},
		},
	}
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	cmd := NewCompileCommand(&fakeSource{sections: fixtureSections()}, bookRange)
	cmd.GraphPath = filepath.Join(dir, "graph.json")
	cmd.ReportPath = filepath.Join(dir, "report.json")

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Report.Valid {
		t.Errorf("expected valid book: %+v", result.Report.Errors)
	}
	if result.Graph.StartID != "1" {
		t.Errorf("StartID = %s", result.Graph.StartID)
	}

	for _, path := range []string{cmd.GraphPath, cmd.ReportPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output not written: %v", err)
		}
	}

	// The written graph must load back.
	g, err := LoadGraph(cmd.GraphPath)
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("loaded %d nodes, want 3", len(g.Nodes))
	}
}

func TestCompileCommand_MissingTargetAborts(t *testing.T) {
	sections := fixtureSections()
	sections[0].Signals.Choices = append(sections[0].Signals.Choices, domain.ChoiceHint{RawTarget: "250"})
	sections[0].RawText += " Or turn to 250."

	cmd := NewCompileCommand(&fakeSource{sections: sections}, bookRange)
	_, err := cmd.Execute(context.Background())
	if !errors.Is(err, application.ErrMissingTargets) {
		t.Fatalf("expected missing targets error, got %v", err)
	}
}

func TestCompileCommand_StubsWhenAllowed(t *testing.T) {
	sections := fixtureSections()
	sections[0].Signals.Choices = append(sections[0].Signals.Choices, domain.ChoiceHint{RawTarget: "250"})
	sections[0].RawText += " Or turn to 250."

	cmd := NewCompileCommand(&fakeSource{sections: sections}, bookRange)
	cmd.AllowStubs = true

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Graph.StubIDs["250"] != domain.StubBackfilledMissingTarget {
		t.Errorf("StubIDs = %v", result.Graph.StubIDs)
	}
}

func TestCompileCommand_Validate(t *testing.T) {
	var vErr *application.ValidationError

	cmd := NewCompileCommand(nil, bookRange)
	if err := cmd.Validate(); !errors.As(err, &vErr) || vErr.Field != "source" {
		t.Errorf("expected source validation error, got %v", err)
	}

	cmd = NewCompileCommand(&fakeSource{}, domain.Range{Min: 10, Max: 1})
	if err := cmd.Validate(); !errors.As(err, &vErr) || vErr.Field != "range" {
		t.Errorf("expected range validation error, got %v", err)
	}
}

func TestValidateCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	compile := NewCompileCommand(&fakeSource{sections: fixtureSections()}, bookRange)
	compile.GraphPath = filepath.Join(dir, "graph.json")
	if _, err := compile.Execute(context.Background()); err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	validate := NewValidateCommand(compile.GraphPath, bookRange)
	validate.ReportPath = filepath.Join(dir, "report.json")
	result, err := validate.Execute(context.Background())
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.Report.Valid {
		t.Errorf("reloaded graph should validate: %+v", result.Report.Errors)
	}
	if result.Report.TotalSections != 3 {
		t.Errorf("TotalSections = %d", result.Report.TotalSections)
	}
}

func TestOrphansCommand(t *testing.T) {
	dir := t.TempDir()
	sections := fixtureSections()
	// 307 exists but nothing references it, while 397 takes two inbound
	// references. A 9-read-as-0 misprint explains the imbalance.
	sections = append(sections,
		domain.Section{
			ID: "397", RawText: "Hub.", Gameplay: true, Type: domain.SectionTypeSection,
			Signals: domain.Signals{Deaths: []domain.DeathSignal{{Description: "the end"}}},
		},
		domain.Section{
			ID: "307", RawText: "Lost room.", Gameplay: true, Type: domain.SectionTypeSection,
			Signals: domain.Signals{Deaths: []domain.DeathSignal{{Description: "the end"}}},
		},
	)
	sections[0].Signals.Choices = append(sections[0].Signals.Choices, domain.ChoiceHint{RawTarget: "397"})
	sections[0].RawText += " Or turn to 397."
	sections[2].Signals.Choices = append(sections[2].Signals.Choices, domain.ChoiceHint{RawTarget: "397"})
	sections[2].RawText += " Or turn to 397."

	compile := NewCompileCommand(&fakeSource{sections: sections}, bookRange)
	compile.GraphPath = filepath.Join(dir, "graph.json")
	if _, err := compile.Execute(context.Background()); err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	orphans := NewOrphansCommand(compile.GraphPath, bookRange)
	result, err := orphans.Execute(context.Background())
	if err != nil {
		t.Fatalf("orphans failed: %v", err)
	}
	if len(result.Suspects) != 1 || result.Suspects[0].OrphanID != "307" || result.Suspects[0].SuspectTarget != "397" {
		t.Errorf("suspects = %+v", result.Suspects)
	}
}
