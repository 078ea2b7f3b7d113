package domain

import (
	"sort"
	"strconv"
	"strings"
)

// SectionType classifies a narrative unit from the scanned book.
type SectionType string

const (
	SectionTypeSection        SectionType = "section"
	SectionTypeIntro          SectionType = "intro"
	SectionTypeRules          SectionType = "rules"
	SectionTypeAdventureSheet SectionType = "adventure_sheet"
	SectionTypeBackground     SectionType = "background"
	SectionTypeTemplate       SectionType = "template"
	SectionTypeUnknown        SectionType = "unknown"
)

// ParseSectionType maps an upstream type string onto a known SectionType.
func ParseSectionType(s string) SectionType {
	switch SectionType(strings.ToLower(strings.TrimSpace(s))) {
	case SectionTypeSection:
		return SectionTypeSection
	case SectionTypeIntro:
		return SectionTypeIntro
	case SectionTypeRules:
		return SectionTypeRules
	case SectionTypeAdventureSheet:
		return SectionTypeAdventureSheet
	case SectionTypeBackground:
		return SectionTypeBackground
	case SectionTypeTemplate:
		return SectionTypeTemplate
	default:
		return SectionTypeUnknown
	}
}

// Range is the inclusive span of canonical gameplay section numbers,
// e.g. 1-400 for a standard gamebook.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Section is one narrative unit as delivered by the upstream extraction
// stage: raw OCR text, lightweight markup, and unvalidated signal lists.
// The compiler never mutates it; the enriched output lives in CompiledSection.
type Section struct {
	ID        string
	RawText   string
	RawMarkup string
	Gameplay  bool
	Type      SectionType
	Signals   Signals
}

// Signals holds the pre-extracted, unordered gameplay hints for a section.
// Each list arrives independently from upstream heuristics; the sequencer
// is responsible for ordering and reconciling them.
type Signals struct {
	Choices     []ChoiceHint
	StatChanges []StatChangeSignal
	StatChecks  []StatCheckSignal
	Combats     []CombatSignal
	Items       []ItemSignal
	ItemChecks  []ItemCheckSignal
	StateChecks []StateCheckSignal
	TestLucks   []TestLuckSignal
	Deaths      []DeathSignal
}

// Count returns the total number of signals across all lists.
func (s Signals) Count() int {
	return len(s.Choices) + len(s.StatChanges) + len(s.StatChecks) +
		len(s.Combats) + len(s.Items) + len(s.ItemChecks) +
		len(s.StateChecks) + len(s.TestLucks) + len(s.Deaths)
}

// ChoiceHint is an upstream-detected player choice with its raw,
// still-unresolved target token.
type ChoiceHint struct {
	Label     string
	RawTarget string
}

// StatChangeSignal is a detected stat modification (e.g. STAMINA -2).
type StatChangeSignal struct {
	Stat   string
	Amount int
	Scope  string
}

// StatCheckSignal is a detected dice-roll check against a stat, with raw
// outcome tokens for the pass and fail branches.
type StatCheckSignal struct {
	Stat    string
	Dice    string
	RawPass string
	RawFail string
}

// Enemy is one combat opponent.
type Enemy struct {
	Name    string
	Skill   int
	Stamina int
}

// CombatSignal is a detected combat block with raw outcome tokens.
type CombatSignal struct {
	Enemies   []Enemy
	RawWin    string
	RawLose   string
	RawEscape string
}

// ItemAction says what an inventory mention does.
type ItemAction string

const (
	ItemAdd    ItemAction = "add"
	ItemRemove ItemAction = "remove"
)

// ItemSignal is a detected inventory gain or loss.
type ItemSignal struct {
	Name     string
	Action   ItemAction
	Optional bool
}

// ItemCheckSignal is a detected possession test ("if you have the rope...").
// Either Item or ItemsAll is set.
type ItemCheckSignal struct {
	Item       string
	ItemsAll   []string
	RawHas     string
	RawMissing string
}

// StateCheckSignal is a detected free-form condition test.
type StateCheckSignal struct {
	Condition  string
	RawHas     string
	RawMissing string
}

// TestLuckSignal is a detected "Test your Luck" block.
type TestLuckSignal struct {
	RawLucky   string
	RawUnlucky string
}

// DeathSignal is a detected unconditional death.
type DeathSignal struct {
	Description string
}

// NavigationSummary is the derived per-section summary of where the
// section can send the player.
type NavigationSummary struct {
	Targets   []string // sorted, unique
	Terminals int      // count of terminal outcomes in the sequence
	Deaths    int      // count of death terminals
}

// StubReason records why a placeholder node was backfilled.
type StubReason string

const (
	StubBackfilledMissingTarget StubReason = "backfilled_missing_target"
	StubVerifiedMissing         StubReason = "verified_missing_from_source"
)

// CompiledSection is the enriched copy of a Section carrying its ordered
// event sequence and navigation summary.
type CompiledSection struct {
	Section
	Sequence   []Event
	Nav        NavigationSummary
	EndGame    bool
	StubReason StubReason // empty for real sections
}

// Stub reports whether the section is a backfilled placeholder.
func (c *CompiledSection) Stub() bool {
	return c.StubReason != ""
}

// NewStub builds a placeholder node for a referenced-but-absent id.
func NewStub(id string, reason StubReason) *CompiledSection {
	return &CompiledSection{
		Section: Section{
			ID:       id,
			Gameplay: true,
			Type:     SectionTypeSection,
		},
		StubReason: reason,
	}
}

// Summarize derives the navigation summary for an event sequence.
func Summarize(events []Event) NavigationSummary {
	var nav NavigationSummary
	seen := map[string]bool{}
	for _, out := range Outcomes(events) {
		if out.Terminal != nil {
			nav.Terminals++
			if out.Terminal.Kind == TerminalDeath {
				nav.Deaths++
			}
			continue
		}
		if !seen[out.Target] {
			seen[out.Target] = true
			nav.Targets = append(nav.Targets, out.Target)
		}
	}
	SortIDs(nav.Targets)
	return nav
}

// SortIDs orders section ids numerically where possible, lexicographically
// otherwise, with numeric ids before non-numeric ones. All graph and report
// output depends on this order being stable.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return LessID(ids[i], ids[j])
	})
}

// LessID is the canonical ordering of section ids.
func LessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
