package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	embeddedNumeral = regexp.MustCompile(`[0-9]{1,4}`)

	deathKeywords = []string{"death", "die", "dead", "killed", "slain"}

	continueKeywords = []string{"continue", "still alive", "if alive"}
)

// ResolveToken turns a raw reference token into a canonical outcome.
// The second return is false when the token implies the narrative simply
// continues and no edge should be recorded. Rules apply in order:
//
//  1. purely numeric (after OCR confusion substitution) and in range -> target
//  2. death keyword -> terminal death
//  3. embedded numeral in range -> target
//  4. continue keyword -> no outcome
//  5. anything else -> terminal other, token preserved for forensics
//
// Deterministic: same token and range always produce the same outcome.
func ResolveToken(raw string, rng Range) (*Outcome, bool) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil, false
	}

	if n, ok := NormalizeNumeral(token, rng); ok && isNumeralToken(token) {
		return TargetOutcome(strconv.Itoa(n)), true
	}

	lower := strings.ToLower(token)
	for _, kw := range deathKeywords {
		if containsWord(lower, kw) {
			return TerminalOutcome(TerminalDeath, token), true
		}
	}

	if m := embeddedNumeral.FindString(token); m != "" {
		if n, err := strconv.Atoi(m); err == nil && rng.Contains(n) {
			return TargetOutcome(strconv.Itoa(n)), true
		}
	}

	for _, kw := range continueKeywords {
		if strings.Contains(lower, kw) {
			return nil, false
		}
	}

	return TerminalOutcome(TerminalOther, token), true
}

// isNumeralToken reports whether the token is a single numeral-shaped word:
// no spaces, and every character either a digit or a known OCR confusion.
func isNumeralToken(token string) bool {
	if strings.ContainsAny(token, " \t\n") {
		return false
	}
	return len(NumericCandidates(token)) > 0
}

// containsWord matches kw on word boundaries within s (both lowercase).
func containsWord(s, kw string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], kw)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isLetter(s[i-1])
		afterIdx := i + len(kw)
		after := afterIdx >= len(s) || !isLetter(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(kw)
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
