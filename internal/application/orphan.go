package application

import (
	"strconv"

	"bookgraph/internal/domain"
)

// DefaultOrphanInbound is the minimum inbound count a shape-confused
// neighbor needs before an orphan gets flagged against it. Below this the
// neighbor's own references are too thin to suggest it absorbed the
// orphan's.
const DefaultOrphanInbound = 2

// AnalyzeOrphans finds gameplay sections nothing links to and, for each,
// looks for a single-digit shape confusion (3 read as 8, 0 as 9, and so
// on) that would explain where the inbound references ended up. A suspect
// needs at least minInbound inbound references; pass 0 for the default.
// Results come back in canonical orphan id order.
func AnalyzeOrphans(g *domain.Graph, minInbound int) []domain.OrphanSuspect {
	if minInbound <= 0 {
		minInbound = DefaultOrphanInbound
	}
	inbound := g.InboundCounts()

	var suspects []domain.OrphanSuspect
	for _, id := range g.IDs() {
		sec := g.Nodes[id]
		if !sec.Gameplay || id == g.StartID || inbound[id] > 0 {
			continue
		}
		if best, count := bestSuspect(g, id, inbound, minInbound); best != "" {
			suspects = append(suspects, domain.OrphanSuspect{
				OrphanID:      id,
				SuspectTarget: best,
				InboundCount:  count,
			})
		}
	}
	return suspects
}

// bestSuspect picks the shape-confused neighbor with the most inbound
// references, ties broken by canonical id order.
func bestSuspect(g *domain.Graph, id string, inbound map[string]int, minInbound int) (string, int) {
	var best string
	bestCount := 0
	for _, cand := range domain.ShapeConfusedIDs(id) {
		n, err := strconv.Atoi(cand)
		if err != nil || !g.ExpectedRange.Contains(n) {
			continue
		}
		count := inbound[cand]
		if count < minInbound {
			continue
		}
		if count > bestCount || (count == bestCount && domain.LessID(cand, best)) {
			best = cand
			bestCount = count
		}
	}
	return best, bestCount
}
