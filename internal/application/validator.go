package application

import (
	"fmt"
	"strings"

	"bookgraph/internal/domain"
)

// Validate checks the graph's integrity: every referenced section exists,
// no id appears twice, every gameplay section has text and a way out, and
// every gameplay section is reachable from the start. Missing and
// duplicate sections are errors; the rest are warnings. Output is fully
// deterministic; validating the same graph twice yields identical reports.
func Validate(g *domain.Graph) *domain.ValidationReport {
	rep := &domain.ValidationReport{TotalSections: len(g.Nodes)}

	rep.MissingSections = missingTargets(g)
	rep.Duplicates = append(rep.Duplicates, g.Duplicates...)

	for _, id := range g.IDs() {
		sec := g.Nodes[id]
		if !sec.Gameplay {
			continue
		}
		if strings.TrimSpace(sec.RawText) == "" {
			rep.NoTextSections = append(rep.NoTextSections, id)
		}
		if !sec.Stub() && !sec.EndGame && len(sec.Nav.Targets) == 0 {
			rep.NoChoiceSections = append(rep.NoChoiceSections, id)
		}
	}

	rep.Unreachable = unreachable(g)
	rep.OrphanSuspects = AnalyzeOrphans(g, 0)

	for _, id := range rep.MissingSections {
		rep.Errors = append(rep.Errors, fmt.Sprintf("section %s is referenced but does not exist", id))
	}
	for _, id := range rep.Duplicates {
		rep.Errors = append(rep.Errors, fmt.Sprintf("section %s appears more than once in the input", id))
	}
	for _, id := range rep.NoTextSections {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("section %s has no text", id))
	}
	for _, id := range rep.NoChoiceSections {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("section %s has no choices and does not end the game", id))
	}
	for _, id := range rep.Unreachable {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("section %s is unreachable from %s", id, g.StartID))
	}
	for _, s := range rep.OrphanSuspects {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"section %s is never referenced; %d references to %s may belong to it",
			s.OrphanID, s.InboundCount, s.SuspectTarget))
	}

	rep.Valid = len(rep.Errors) == 0

	// Serialized reports carry empty arrays, not nulls.
	for _, s := range []*[]string{
		&rep.MissingSections, &rep.Duplicates, &rep.NoTextSections,
		&rep.NoChoiceSections, &rep.Unreachable, &rep.Warnings, &rep.Errors,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
	if rep.OrphanSuspects == nil {
		rep.OrphanSuspects = []domain.OrphanSuspect{}
	}
	return rep
}

// unreachable returns gameplay ids not visited by a breadth-first walk from
// the start. Targets expand in canonical order so the traversal, and thus
// the report, never varies between runs.
func unreachable(g *domain.Graph) []string {
	visited := map[string]bool{}
	if _, ok := g.Nodes[g.StartID]; ok {
		queue := []string{g.StartID}
		visited[g.StartID] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			targets := append([]string(nil), g.Nodes[id].Nav.Targets...)
			domain.SortIDs(targets)
			for _, t := range targets {
				if visited[t] {
					continue
				}
				if _, ok := g.Nodes[t]; !ok {
					continue
				}
				visited[t] = true
				queue = append(queue, t)
			}
		}
	}

	var out []string
	for _, id := range g.IDs() {
		if g.Nodes[id].Gameplay && !visited[id] {
			out = append(out, id)
		}
	}
	return out
}

// PathFromStart returns one shortest path from the start section to the
// given id, or nil when the id is unreachable.
func PathFromStart(g *domain.Graph, id string) []string {
	if _, ok := g.Nodes[g.StartID]; !ok {
		return nil
	}
	if g.StartID == id {
		return []string{id}
	}
	parent := map[string]string{g.StartID: ""}
	queue := []string{g.StartID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		targets := append([]string(nil), g.Nodes[cur].Nav.Targets...)
		domain.SortIDs(targets)
		for _, t := range targets {
			if _, seen := parent[t]; seen {
				continue
			}
			if _, ok := g.Nodes[t]; !ok {
				continue
			}
			parent[t] = cur
			if t == id {
				var path []string
				for at := id; at != ""; at = parent[at] {
					path = append([]string{at}, path...)
				}
				return path
			}
			queue = append(queue, t)
		}
	}
	return nil
}
