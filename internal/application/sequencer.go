package application

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bookgraph/internal/domain"
)

// Sequencing windows, in bytes of raw markup. The guard window bounds how
// far an item removal may trail its "if you have X" phrase; the stat window
// bounds how far a co-conditional stat change may sit from that removal;
// the take window bounds "take X and turn to N" attachment.
const (
	guardWindow      = 120
	statBundleWindow = 80
	takeAttachWindow = 60
)

var (
	guardPhrase = regexp.MustCompile(`(?i)\bif you (?:have|possess|are carrying|still have)\b`)

	// Best-effort heuristic list for "taking is optional" phrasing. This is
	// a fixed, hand-tuned set, not semantic understanding; unknown phrasings
	// fall through to the normal attachment rules.
	optionalTakePhrases = []string{
		"may take",
		"if you wish",
		"should you wish",
		"if you want",
		"if you like",
	}

	testLuckPhrase = "test your luck"
)

// Discard records a signal that sequencing dropped or folded away, for
// auditability.
type Discard struct {
	Reason string
	Event  domain.Event
}

// pending is one signal placed (or not) in the section's prose.
type pending struct {
	event  domain.Event
	anchor int // byte offset in raw markup, -1 when unlocatable
	class  int // unanchored tail ordering
	orig   int // index within the signal's own list
}

// Tail classes for signals whose anchor cannot be located; they append
// after all anchored signals, grouped in this fixed order.
const (
	classChoice = iota
	classStatChange
	classStatCheck
	classItemOp
	classItemCheck
	classStateCheck
	classTestLuck
	classCombat
	classDeath
)

// SequenceSection merges a section's unordered signal lists into one
// canonical event sequence. Signals are anchored to their first plausible
// position in the raw markup and sorted by offset; unanchorable signals
// append at the end in list order. Raw tokens are resolved on the way in,
// so the output never carries an unresolved reference.
func SequenceSection(sec domain.Section, rng domain.Range) ([]domain.Event, []Discard) {
	markup := sec.RawMarkup
	if strings.TrimSpace(markup) == "" {
		markup = sec.RawText
	}

	var discards []Discard
	pendings := collectSignals(sec, markup, rng)

	pendings = suppressSurvivalDamage(pendings, sec.ID, &discards)
	pendings = orderByAnchor(pendings)
	pendings = bundleConditionals(pendings, markup, &discards)
	pendings = attachChoiceEffects(pendings, &discards)
	pendings = dedupe(pendings, &discards)
	pendings = reorderOutcomeChoices(pendings)

	events := make([]domain.Event, 0, len(pendings))
	for _, p := range pendings {
		events = append(events, p.event)
	}
	return events, discards
}

// collectSignals resolves every raw token and locates every anchor.
func collectSignals(sec domain.Section, markup string, rng domain.Range) []pending {
	var out []pending
	sig := sec.Signals

	hintTargets := map[string]bool{}
	for i, ch := range sig.Choices {
		outc, ok := resolveOrNone(ch.RawTarget, rng)
		if ok && outc.IsTarget() {
			hintTargets[outc.Target] = true
		}
		out = append(out, pending{
			event:  domain.Choice{Target: outc, Label: ch.Label},
			anchor: choiceAnchor(markup, ch),
			class:  classChoice,
			orig:   i,
		})
	}

	// References the extractor finds in prose but upstream missed become
	// bare choices; targets already covered by a hint are skipped.
	for i, c := range domain.ExtractReferences(sec.RawText, rng) {
		id := strconv.Itoa(c.Target)
		if hintTargets[id] {
			continue
		}
		out = append(out, pending{
			event:  domain.Choice{Target: domain.TargetOutcome(id)},
			anchor: referenceAnchor(markup, c.RawToken),
			class:  classChoice,
			orig:   len(sig.Choices) + i,
		})
	}

	for i, sc := range sig.StatChanges {
		out = append(out, pending{
			event:  domain.StatChange{Stat: sc.Stat, Amount: sc.Amount, Scope: sc.Scope},
			anchor: statAnchor(markup, sc.Stat),
			class:  classStatChange,
			orig:   i,
		})
	}

	for i, sc := range sig.StatChecks {
		pass, _ := resolveOrNone(sc.RawPass, rng)
		fail, _ := resolveOrNone(sc.RawFail, rng)
		anchor := phraseAnchor(markup, "test your "+sc.Stat, 0)
		if anchor < 0 {
			anchor = statAnchor(markup, sc.Stat)
		}
		out = append(out, pending{
			event:  domain.StatCheck{Stat: sc.Stat, Dice: sc.Dice, Pass: pass, Fail: fail},
			anchor: anchor,
			class:  classStatCheck,
			orig:   i,
		})
	}

	for i, it := range sig.Items {
		optional := it.Optional || optionalTakeNear(markup, it.Name)
		out = append(out, pending{
			event:  domain.ItemOp{Action: it.Action, Item: it.Name, Optional: optional},
			anchor: indexFold(markup, it.Name),
			class:  classItemOp,
			orig:   i,
		})
	}

	for i, ic := range sig.ItemChecks {
		has, _ := resolveOrNone(ic.RawHas, rng)
		missing, _ := resolveOrNone(ic.RawMissing, rng)
		name := ic.Item
		if name == "" && len(ic.ItemsAll) > 0 {
			name = ic.ItemsAll[0]
		}
		out = append(out, pending{
			event:  domain.ItemCheck{Item: ic.Item, ItemsAll: ic.ItemsAll, Has: has, Missing: missing},
			anchor: indexFold(markup, name),
			class:  classItemCheck,
			orig:   i,
		})
	}

	for i, st := range sig.StateChecks {
		has, _ := resolveOrNone(st.RawHas, rng)
		missing, _ := resolveOrNone(st.RawMissing, rng)
		out = append(out, pending{
			event:  domain.StateCheck{Condition: st.Condition, Has: has, Missing: missing},
			anchor: indexFold(markup, clipAnchorText(st.Condition)),
			class:  classStateCheck,
			orig:   i,
		})
	}

	for i, tl := range sig.TestLucks {
		lucky, _ := resolveOrNone(tl.RawLucky, rng)
		unlucky, _ := resolveOrNone(tl.RawUnlucky, rng)
		out = append(out, pending{
			event:  domain.TestLuck{Lucky: lucky, Unlucky: unlucky},
			anchor: phraseAnchor(markup, testLuckPhrase, i),
			class:  classTestLuck,
			orig:   i,
		})
	}

	for i, cb := range sig.Combats {
		win, _ := resolveOrNone(cb.RawWin, rng)
		lose, _ := resolveOrNone(cb.RawLose, rng)
		escape, _ := resolveOrNone(cb.RawEscape, rng)
		out = append(out, pending{
			event:  domain.Combat{Enemies: cb.Enemies, Win: win, Lose: lose, Escape: escape},
			anchor: combatAnchor(markup, cb),
			class:  classCombat,
			orig:   i,
		})
	}

	for i, d := range sig.Deaths {
		anchor := indexFold(markup, clipAnchorText(d.Description))
		if anchor < 0 {
			anchor = indexFold(markup, "adventure ends")
		}
		out = append(out, pending{
			event:  domain.Death{Outcome: domain.TerminalOutcome(domain.TerminalDeath, d.Description), Description: d.Description},
			anchor: anchor,
			class:  classDeath,
			orig:   i,
		})
	}

	return out
}

func resolveOrNone(raw string, rng domain.Range) (*domain.Outcome, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	return domain.ResolveToken(raw, rng)
}

// orderByAnchor sorts anchored signals by offset (stable, so collection
// order breaks ties) and appends unanchored signals afterwards in class
// then list order. Test fixtures depend on this exact tie-break.
func orderByAnchor(pendings []pending) []pending {
	anchored := make([]pending, 0, len(pendings))
	var tail []pending
	for _, p := range pendings {
		if p.anchor >= 0 {
			anchored = append(anchored, p)
		} else {
			tail = append(tail, p)
		}
	}
	sort.SliceStable(anchored, func(i, j int) bool { return anchored[i].anchor < anchored[j].anchor })
	sort.SliceStable(tail, func(i, j int) bool {
		if tail[i].class != tail[j].class {
			return tail[i].class < tail[j].class
		}
		return tail[i].orig < tail[j].orig
	})
	return append(anchored, tail...)
}

// suppressSurvivalDamage drops stat checks whose pass branch merely
// continues the current section while the fail branch is a terminal death.
// That pattern is flavor text for ordinary combat damage; modeled as a
// branch it produces a spurious self-loop.
func suppressSurvivalDamage(pendings []pending, sectionID string, discards *[]Discard) []pending {
	out := pendings[:0]
	for _, p := range pendings {
		if sc, ok := p.event.(domain.StatCheck); ok {
			passContinues := sc.Pass == nil || (sc.Pass.IsTarget() && sc.Pass.Target == sectionID)
			failDies := sc.Fail != nil && sc.Fail.Terminal != nil && sc.Fail.Terminal.Kind == domain.TerminalDeath
			if passContinues && failDies {
				*discards = append(*discards, Discard{Reason: "survival_damage_flavor", Event: p.event})
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// bundleConditionals merges an item removal that trails an "if you have X"
// guard with a co-located stat change into a single guarded bundle: the
// item loss and stat loss only happen together.
func bundleConditionals(pendings []pending, markup string, discards *[]Discard) []pending {
	guards := guardPhrase.FindAllStringIndex(markup, -1)
	if len(guards) == 0 {
		return pendings
	}

	for i := range pendings {
		op, ok := pendings[i].event.(domain.ItemOp)
		if !ok || op.Action != domain.ItemRemove || pendings[i].anchor < 0 {
			continue
		}
		guardStart := guardFor(guards, pendings[i].anchor)
		if guardStart < 0 {
			continue
		}
		j := nearbyStatChange(pendings, i)
		if j < 0 {
			continue
		}
		change := pendings[j].event.(domain.StatChange)
		cond := fmt.Sprintf("%s %s", strings.TrimSpace(markup[guardStart:guards[guardIdx(guards, guardStart)][1]]), op.Item)
		pendings[i].event = domain.Conditional{
			Condition: cond,
			Then:      []domain.Event{op, change},
		}
		pendings[i].class = classItemOp
		*discards = append(*discards, Discard{Reason: "merged_into_conditional", Event: change})
		pendings = append(pendings[:j], pendings[j+1:]...)
		break // one bundle per section pass; repeated guards are rare
	}
	return pendings
}

func guardFor(guards [][]int, anchor int) int {
	best := -1
	for _, g := range guards {
		if g[0] <= anchor && anchor-g[0] <= guardWindow && g[0] > best {
			best = g[0]
		}
	}
	return best
}

func guardIdx(guards [][]int, start int) int {
	for i, g := range guards {
		if g[0] == start {
			return i
		}
	}
	return 0
}

func nearbyStatChange(pendings []pending, itemIdx int) int {
	anchor := pendings[itemIdx].anchor
	for j := range pendings {
		if j == itemIdx {
			continue
		}
		if _, ok := pendings[j].event.(domain.StatChange); !ok {
			continue
		}
		if pendings[j].anchor < 0 {
			continue
		}
		if abs(pendings[j].anchor-anchor) <= statBundleWindow {
			return j
		}
	}
	return -1
}

// attachChoiceEffects moves an item gained/lost inside exactly one choice's
// paragraph onto that choice, instead of applying it unconditionally.
// Optional takes are exempt: taking is not required for either branch.
func attachChoiceEffects(pendings []pending, discards *[]Discard) []pending {
	type choicePos struct {
		idx    int
		anchor int
	}
	var choices []choicePos
	for i, p := range pendings {
		if _, ok := p.event.(domain.Choice); ok && p.anchor >= 0 {
			choices = append(choices, choicePos{idx: i, anchor: p.anchor})
		}
	}
	if len(choices) == 0 {
		return pendings
	}

	var removals []int
	for i, p := range pendings {
		op, ok := p.event.(domain.ItemOp)
		if !ok || op.Optional || p.anchor < 0 {
			continue
		}

		owner := -1
		for ci, c := range choices {
			if c.anchor <= p.anchor {
				continue
			}
			// Item belongs to this choice's paragraph when it sits after the
			// previous choice, or hugs the choice in "take X and turn to N"
			// distance.
			inParagraph := ci > 0 && choices[ci-1].anchor < p.anchor
			hugs := c.anchor-p.anchor <= takeAttachWindow
			if inParagraph || hugs {
				owner = c.idx
			}
			break
		}
		if owner < 0 {
			continue
		}

		ch := pendings[owner].event.(domain.Choice)
		ch.Effects = append(ch.Effects, op)
		pendings[owner].event = ch
		removals = append(removals, i)
		*discards = append(*discards, Discard{Reason: "scoped_to_choice", Event: op})
	}

	if len(removals) == 0 {
		return pendings
	}
	out := pendings[:0]
	skip := map[int]bool{}
	for _, r := range removals {
		skip[r] = true
	}
	for i, p := range pendings {
		if !skip[i] {
			out = append(out, p)
		}
	}
	return out
}

// dedupe is a single fold producing the deduplicated list plus discard log
// entries. Identical stat changes collapse; item adds for the same item
// collapse to the longer, more specific name.
func dedupe(pendings []pending, discards *[]Discard) []pending {
	out := pendings[:0]
	statSeen := map[string]bool{}
	itemKept := map[int]int{} // output index of kept item adds

	for _, p := range pendings {
		switch ev := p.event.(type) {
		case domain.StatChange:
			key := fmt.Sprintf("%s|%d|%s", strings.ToLower(ev.Stat), ev.Amount, ev.Scope)
			if statSeen[key] {
				*discards = append(*discards, Discard{Reason: "duplicate_stat_change", Event: ev})
				continue
			}
			statSeen[key] = true
			out = append(out, p)
		case domain.ItemOp:
			if ev.Action != domain.ItemAdd {
				out = append(out, p)
				continue
			}
			dup := -1
			for ki := range itemKept {
				kept := out[itemKept[ki]].event.(domain.ItemOp)
				if sameItem(kept.Item, ev.Item) {
					dup = itemKept[ki]
					break
				}
			}
			if dup >= 0 {
				kept := out[dup].event.(domain.ItemOp)
				if len(ev.Item) > len(kept.Item) {
					kept.Item = ev.Item
					out[dup].event = kept
				}
				*discards = append(*discards, Discard{Reason: "duplicate_item", Event: ev})
				continue
			}
			itemKept[len(itemKept)] = len(out)
			out = append(out, p)
		default:
			out = append(out, p)
		}
	}
	return out
}

// sameItem treats two item names as the same thing when they normalize
// equal or one contains the other as a whole word ("pearl" inside
// "Large Pearl").
func sameItem(a, b string) bool {
	na, nb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if na == nb {
		return true
	}
	return containsWholeWord(na, nb) || containsWholeWord(nb, na)
}

func containsWholeWord(haystack, needle string) bool {
	for _, w := range strings.Fields(haystack) {
		if w == needle {
			return true
		}
	}
	if len(strings.Fields(needle)) > 1 {
		return strings.Contains(" "+haystack+" ", " "+needle+" ")
	}
	return false
}

// reorderOutcomeChoices moves a choice whose target repeats a combat or
// stat-check outcome to sit immediately after that mechanic: the choice is
// presenting the mechanic's result, not an independent decision. Each
// choice binds to the first mechanic listing its target; bound choices are
// emitted right behind their mechanic in their original relative order.
// A single rebuild, so rerunning it on its own output changes nothing.
func reorderOutcomeChoices(pendings []pending) []pending {
	mechTargets := func(ev domain.Event) []string {
		switch ev.(type) {
		case domain.Combat, domain.StatCheck:
			return domain.Targets([]domain.Event{ev})
		}
		return nil
	}

	owner := map[int]int{} // choice index -> owning mechanic index
	for j, q := range pendings {
		targets := mechTargets(q.event)
		if len(targets) == 0 {
			continue
		}
		for i, p := range pendings {
			if _, bound := owner[i]; bound {
				continue
			}
			ch, ok := p.event.(domain.Choice)
			if !ok || !ch.Target.IsTarget() {
				continue
			}
			for _, t := range targets {
				if t == ch.Target.Target {
					owner[i] = j
					break
				}
			}
		}
	}
	if len(owner) == 0 {
		return pendings
	}

	out := make([]pending, 0, len(pendings))
	for i, p := range pendings {
		if _, bound := owner[i]; bound {
			continue
		}
		out = append(out, p)
		for ci := range pendings {
			if j, bound := owner[ci]; bound && j == i {
				out = append(out, pendings[ci])
			}
		}
	}
	return out
}

// --- anchor helpers ---

func choiceAnchor(markup string, ch domain.ChoiceHint) int {
	if ch.RawTarget != "" {
		if i := strings.Index(markup, "[["+ch.RawTarget+"]]"); i >= 0 {
			return i
		}
	}
	if ch.Label != "" {
		if i := indexFold(markup, clipAnchorText(ch.Label)); i >= 0 {
			return i
		}
	}
	if ch.RawTarget != "" {
		return indexFold(markup, ch.RawTarget)
	}
	return -1
}

func referenceAnchor(markup, rawToken string) int {
	if i := strings.Index(markup, "[["+rawToken+"]]"); i >= 0 {
		return i
	}
	return indexFold(markup, rawToken)
}

// statAnchor prefers a stat name occurrence with a digit nearby, since
// stats are mentioned in rules text too.
func statAnchor(markup, stat string) int {
	if stat == "" {
		return -1
	}
	first := -1
	offset := 0
	for {
		i := indexFold(markup[offset:], stat)
		if i < 0 {
			break
		}
		i += offset
		if first < 0 {
			first = i
		}
		lo := i - 40
		if lo < 0 {
			lo = 0
		}
		hi := i + len(stat) + 40
		if hi > len(markup) {
			hi = len(markup)
		}
		if strings.ContainsAny(markup[lo:hi], "0123456789") {
			return i
		}
		offset = i + len(stat)
	}
	return first
}

func combatAnchor(markup string, cb domain.CombatSignal) int {
	for _, e := range cb.Enemies {
		if i := indexFold(markup, e.Name); i >= 0 {
			return i
		}
	}
	for _, kw := range []string{"fight", "attack", "battle"} {
		if i := indexFold(markup, kw); i >= 0 {
			return i
		}
	}
	return -1
}

// phraseAnchor finds the nth occurrence of a phrase (0-based).
func phraseAnchor(markup, phrase string, nth int) int {
	offset := 0
	for n := 0; ; n++ {
		i := indexFold(markup[offset:], phrase)
		if i < 0 {
			return -1
		}
		i += offset
		if n == nth {
			return i
		}
		offset = i + len(phrase)
	}
}

// optionalTakeNear reports whether an optional-take phrase appears within
// the guard window around the item name. Known-heuristic phrase list.
func optionalTakeNear(markup, item string) bool {
	i := indexFold(markup, item)
	if i < 0 {
		return false
	}
	lo := i - guardWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + len(item) + guardWindow
	if hi > len(markup) {
		hi = len(markup)
	}
	window := strings.ToLower(markup[lo:hi])
	for _, phrase := range optionalTakePhrases {
		if strings.Contains(window, phrase) {
			return true
		}
	}
	return false
}

// clipAnchorText shortens long anchor text to its leading words so minor
// OCR differences deeper in the phrase do not defeat the search.
func clipAnchorText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 24 {
		return s
	}
	clipped := s[:24]
	if i := strings.LastIndex(clipped, " "); i > 0 {
		clipped = clipped[:i]
	}
	return clipped
}

func indexFold(s, sub string) int {
	if sub == "" {
		return -1
	}
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
