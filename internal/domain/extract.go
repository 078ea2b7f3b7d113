package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Candidate is a scored cross-reference found in section text, prior to
// resolution and deduplication.
type Candidate struct {
	RawToken   string
	Target     int
	Confidence float64
	Pattern    string
	Span       [2]int // byte offsets of the match in the scanned text
}

// refPattern is one phrase pattern with a fixed confidence. Lower priority
// numbers win ties during per-target deduplication.
type refPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
	priority   int
}

// The signal verbs tolerate common OCR misreads: "turn" is frequently
// scanned as "tum", "tur n" or "tlirn" in degraded print.
var refPatterns = []refPattern{
	{
		name:       "turn_to",
		re:         regexp.MustCompile(`(?i)\bt(?:urn|um|ur n|lirn|nrn)(?:ing)?\s+(?:at\s+once\s+)?to\s+([0-9A-Za-z|!]+)`),
		confidence: 0.95,
		priority:   0,
	},
	{
		name:       "go_to",
		re:         regexp.MustCompile(`(?i)\bgo(?:es)?\s+(?:straight\s+)?to\s+([0-9A-Za-z|!]+)`),
		confidence: 0.85,
		priority:   1,
	},
	{
		name:       "continue_to",
		re:         regexp.MustCompile(`(?i)\b(?:continue|proceed)\s+(?:on\s+)?to\s+([0-9A-Za-z|!]+)`),
		confidence: 0.80,
		priority:   2,
	},
	{
		name:       "return_to",
		re:         regexp.MustCompile(`(?i)\breturn\s+to\s+([0-9A-Za-z|!]+)`),
		confidence: 0.75,
		priority:   3,
	},
	{
		name:       "bare_parenthetical",
		re:         regexp.MustCompile(`\(([0-9]{1,3})\)`),
		confidence: 0.60,
		priority:   4,
	},
}

// ExtractReferences scans section text for cross-reference phrases and
// returns one candidate per distinct target, keeping the highest-confidence
// match (ties broken by pattern priority, then first occurrence). Numeric
// tokens are normalized through the OCR confusion table; tokens that do not
// normalize to an integer inside rng are ignored. Pure: never fails, returns
// nil for empty text.
func ExtractReferences(text string, rng Range) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var all []Candidate
	for _, p := range refPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			token := strings.TrimRight(text[start:end], ".,;:!?)'\"")
			if token == "" {
				continue
			}
			n, ok := NormalizeNumeral(token, rng)
			if !ok {
				continue
			}
			all = append(all, Candidate{
				RawToken:   token,
				Target:     n,
				Confidence: p.confidence,
				Pattern:    p.name,
				Span:       [2]int{m[0], m[1]},
			})
		}
	}
	return dedupeCandidates(all)
}

// dedupeCandidates keeps the best candidate per target.
func dedupeCandidates(cands []Candidate) []Candidate {
	best := map[int]Candidate{}
	for _, c := range cands {
		cur, ok := best[c.Target]
		if !ok || betterCandidate(c, cur) {
			best[c.Target] = c
		}
	}
	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Span[0] != out[j].Span[0] {
			return out[i].Span[0] < out[j].Span[0]
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func betterCandidate(a, b Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	pa, pb := patternPriority(a.Pattern), patternPriority(b.Pattern)
	if pa != pb {
		return pa < pb
	}
	return a.Span[0] < b.Span[0]
}

func patternPriority(name string) int {
	for _, p := range refPatterns {
		if p.name == name {
			return p.priority
		}
	}
	return len(refPatterns)
}
