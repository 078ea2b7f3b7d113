package domain

import (
	"sort"
	"strconv"
	"strings"
)

// letterDigits maps characters that OCR commonly misreads onto the digits
// they stand in for. Some letters are ambiguous and map to several digits;
// candidates are generated in the listed order.
var letterDigits = map[rune][]rune{
	'O': {'0'}, 'o': {'0'}, 'Q': {'0'}, 'D': {'0'},
	'I': {'1'}, 'i': {'1'}, 'l': {'1'}, '|': {'1'}, '!': {'1'},
	'Z': {'2'}, 'z': {'2'},
	'E': {'3'},
	'A': {'4'},
	'S': {'5'}, 's': {'5'},
	'G': {'6', '9'}, 'b': {'6'},
	'T': {'7'},
	'B': {'8'},
	'g': {'9'}, 'q': {'9'},
}

// maxSubstitutionCandidates caps the breadth-first expansion over
// per-character substitutions so pathological tokens cannot blow up.
const maxSubstitutionCandidates = 256

// NumericCandidates returns the integers a token could spell once OCR
// letter/digit confusions are substituted out. A candidate is produced only
// when every character is a digit or a known confusion; tokens that are
// already purely numeric yield exactly their own value. The search is a
// bounded breadth-first expansion over substitution choices, capped at
// maxSubstitutionCandidates partial strings, and the result is sorted by
// generation order (first substitution choice first).
func NumericCandidates(token string) []int {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 0 {
		return []int{n}
	}

	partials := []string{""}
	for _, r := range token {
		var options []rune
		switch {
		case r >= '0' && r <= '9':
			options = []rune{r}
		default:
			subs, ok := letterDigits[r]
			if !ok {
				return nil // unconvertible character: not a numeral
			}
			options = subs
		}
		next := make([]string, 0, len(partials)*len(options))
		for _, p := range partials {
			for _, opt := range options {
				if len(next) >= maxSubstitutionCandidates {
					break
				}
				next = append(next, p+string(opt))
			}
		}
		partials = next
	}

	seen := map[int]bool{}
	var out []int
	for _, p := range partials {
		n, err := strconv.Atoi(p)
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// NormalizeNumeral resolves a token to a single integer in the given range,
// taking the first in-range confusion candidate. Returns false when no
// candidate lands in range.
func NormalizeNumeral(token string, rng Range) (int, bool) {
	for _, n := range NumericCandidates(token) {
		if rng.Contains(n) {
			return n, true
		}
	}
	return 0, false
}

// digitShapes maps digits to the digits they are visually confused with in
// degraded print. Used by the orphan analyzer to guess the intended target
// of a misread reference.
var digitShapes = map[byte][]byte{
	'0': {'9'},
	'9': {'0'},
	'6': {'8', '5'},
	'8': {'6', '3'},
	'3': {'8'},
	'1': {'7'},
	'7': {'1', '2'},
	'5': {'6'},
	'2': {'7'},
}

// ShapeConfusedIDs generates the ids reachable from id by substituting one
// visually-confusable digit at a single position. Result is sorted and
// excludes the input itself.
func ShapeConfusedIDs(id string) []string {
	seen := map[string]bool{}
	for i := 0; i < len(id); i++ {
		subs, ok := digitShapes[id[i]]
		if !ok {
			continue
		}
		for _, s := range subs {
			candidate := id[:i] + string(s) + id[i+1:]
			if candidate != id {
				seen[candidate] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
