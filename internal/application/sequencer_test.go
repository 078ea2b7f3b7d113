package application

import (
	"bytes"
	"testing"

	"bookgraph/internal/domain"
)

var testRange = domain.Range{Min: 1, Max: 400}

func TestSequenceSection_OrdersByAnchor(t *testing.T) {
	sec := domain.Section{
		ID:        "10",
		RawText:   "A troll blocks the way. If you flee, turn to 30. If you fight, turn to 20.",
		RawMarkup: "A troll blocks the way. If you flee, turn to [[30]]. If you fight, turn to [[20]].",
		Gameplay:  true,
		Signals: domain.Signals{
			Choices: []domain.ChoiceHint{
				{Label: "If you fight", RawTarget: "20"},
				{Label: "If you flee", RawTarget: "30"},
			},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	if len(discards) != 0 {
		t.Fatalf("unexpected discards: %+v", discards)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	first := events[0].(domain.Choice)
	second := events[1].(domain.Choice)
	if first.Target.Target != "30" || second.Target.Target != "20" {
		t.Errorf("prose order not respected: %s then %s", first.Target, second.Target)
	}
}

func TestSequenceSection_ExtractorSupplementsMissedReference(t *testing.T) {
	sec := domain.Section{
		ID:       "5",
		RawText:  "The corridor bends east. Turn to 44.",
		Gameplay: true,
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	ch, ok := events[0].(domain.Choice)
	if !ok || ch.Target.Target != "44" {
		t.Errorf("expected bare choice to 44, got %+v", events[0])
	}
}

func TestSequenceSection_HintedTargetNotDuplicatedByExtractor(t *testing.T) {
	sec := domain.Section{
		ID:      "5",
		RawText: "Turn to 44.",
		Signals: domain.Signals{
			Choices: []domain.ChoiceHint{{Label: "Onward", RawTarget: "44"}},
		},
		Gameplay: true,
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	if events[0].(domain.Choice).Label != "Onward" {
		t.Errorf("hint should win over extractor: %+v", events[0])
	}
}

func TestSequenceSection_SuppressesSurvivalDamage(t *testing.T) {
	sec := domain.Section{
		ID:        "88",
		RawText:   "The blade bites deep. Lose 2 STAMINA. If you are still alive, you stagger on; turn to 90.",
		RawMarkup: "The blade bites deep. Lose 2 STAMINA. If you are still alive, you stagger on; turn to [[90]].",
		Gameplay:  true,
		Signals: domain.Signals{
			StatChanges: []domain.StatChangeSignal{{Stat: "STAMINA", Amount: -2}},
			StatChecks: []domain.StatCheckSignal{
				{Stat: "STAMINA", Dice: "", RawPass: "continue", RawFail: "death"},
			},
			Choices: []domain.ChoiceHint{{RawTarget: "90"}},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	for _, ev := range events {
		if _, ok := ev.(domain.StatCheck); ok {
			t.Fatalf("survival-damage stat check should be dropped: %+v", events)
		}
	}
	found := false
	for _, d := range discards {
		if d.Reason == "survival_damage_flavor" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing discard entry: %+v", discards)
	}
	if len(events) != 2 {
		t.Errorf("expected stat change + choice, got %+v", events)
	}
}

func TestSequenceSection_BundlesConditionalLoss(t *testing.T) {
	markup := "If you have the rope, you lose it and 2 STAMINA as you climb. Then turn to [[77]]."
	sec := domain.Section{
		ID:        "12",
		RawText:   "If you have the rope, you lose it and 2 STAMINA as you climb. Then turn to 77.",
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Items:       []domain.ItemSignal{{Name: "rope", Action: domain.ItemRemove}},
			StatChanges: []domain.StatChangeSignal{{Stat: "STAMINA", Amount: -2}},
			Choices:     []domain.ChoiceHint{{RawTarget: "77"}},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	if len(events) != 2 {
		t.Fatalf("expected conditional + choice, got %+v", events)
	}
	cond, ok := events[0].(domain.Conditional)
	if !ok {
		t.Fatalf("expected Conditional first, got %T", events[0])
	}
	if len(cond.Then) != 2 {
		t.Fatalf("bundle should hold item loss and stat loss: %+v", cond.Then)
	}
	if _, ok := cond.Then[0].(domain.ItemOp); !ok {
		t.Errorf("bundle missing item op: %+v", cond.Then)
	}
	if _, ok := cond.Then[1].(domain.StatChange); !ok {
		t.Errorf("bundle missing stat change: %+v", cond.Then)
	}
	if len(discards) != 1 || discards[0].Reason != "merged_into_conditional" {
		t.Errorf("unexpected discards: %+v", discards)
	}
}

func TestSequenceSection_ScopesItemToChoice(t *testing.T) {
	markup := "You may go two ways. If you take the silver key and leave north, turn to [[100]]. " +
		"If you leave empty-handed through the tunnel instead, turn to [[200]]."
	sec := domain.Section{
		ID:        "40",
		RawText:   markup,
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Items:   []domain.ItemSignal{{Name: "silver key", Action: domain.ItemAdd}},
			Choices: []domain.ChoiceHint{{RawTarget: "100"}, {RawTarget: "200"}},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	if len(events) != 2 {
		t.Fatalf("expected 2 choices, got %+v", events)
	}
	first := events[0].(domain.Choice)
	if first.Target.Target != "100" || len(first.Effects) != 1 {
		t.Fatalf("item not scoped to its choice: %+v", first)
	}
	op := first.Effects[0].(domain.ItemOp)
	if op.Item != "silver key" || op.Action != domain.ItemAdd {
		t.Errorf("unexpected effect: %+v", op)
	}
	second := events[1].(domain.Choice)
	if len(second.Effects) != 0 {
		t.Errorf("other choice should carry no effects: %+v", second)
	}
	if len(discards) != 1 || discards[0].Reason != "scoped_to_choice" {
		t.Errorf("unexpected discards: %+v", discards)
	}
}

func TestSequenceSection_OptionalTakeStaysSectionLevel(t *testing.T) {
	markup := "A jewelled dagger lies on the altar. You may take the jewelled dagger if you wish. Turn to [[50]]."
	sec := domain.Section{
		ID:        "33",
		RawText:   markup,
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Items:   []domain.ItemSignal{{Name: "jewelled dagger", Action: domain.ItemAdd}},
			Choices: []domain.ChoiceHint{{RawTarget: "50"}},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 2 {
		t.Fatalf("expected item + choice, got %+v", events)
	}
	op, ok := events[0].(domain.ItemOp)
	if !ok || !op.Optional {
		t.Fatalf("optional take should stay section-level and flagged: %+v", events[0])
	}
	if len(events[1].(domain.Choice).Effects) != 0 {
		t.Errorf("optional take must not attach to the choice: %+v", events[1])
	}
}

func TestSequenceSection_DedupesItemsPreferringLongerName(t *testing.T) {
	markup := "You prise out the Large Pearl and pocket it. The passage continues into darkness far ahead of you. Turn to [[60]]."
	sec := domain.Section{
		ID:        "61",
		RawText:   markup,
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Items: []domain.ItemSignal{
				{Name: "pearl", Action: domain.ItemAdd},
				{Name: "Large Pearl", Action: domain.ItemAdd},
			},
			Choices: []domain.ChoiceHint{{RawTarget: "60"}},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	var items []domain.ItemOp
	for _, ev := range events {
		if op, ok := ev.(domain.ItemOp); ok {
			items = append(items, op)
		}
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after dedupe, got %+v", items)
	}
	if items[0].Item != "Large Pearl" {
		t.Errorf("longer name should win: %q", items[0].Item)
	}
	if len(discards) != 1 || discards[0].Reason != "duplicate_item" {
		t.Errorf("unexpected discards: %+v", discards)
	}
}

func TestSequenceSection_DedupesStatChanges(t *testing.T) {
	sec := domain.Section{
		ID:       "15",
		RawText:  "Bad luck. Lose 1 LUCK.",
		Gameplay: true,
		Signals: domain.Signals{
			StatChanges: []domain.StatChangeSignal{
				{Stat: "LUCK", Amount: -1},
				{Stat: "LUCK", Amount: -1},
			},
		},
	}

	events, discards := SequenceSection(sec, testRange)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	if len(discards) != 1 || discards[0].Reason != "duplicate_stat_change" {
		t.Errorf("unexpected discards: %+v", discards)
	}
}

func TestSequenceSection_ReordersOutcomeChoiceAfterCombat(t *testing.T) {
	markup := "If you win, turn to [[120]]. GOBLIN SKILL 5 STAMINA 4."
	sec := domain.Section{
		ID:        "70",
		RawText:   markup,
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Choices: []domain.ChoiceHint{{Label: "If you win", RawTarget: "120"}},
			Combats: []domain.CombatSignal{
				{Enemies: []domain.Enemy{{Name: "GOBLIN", Skill: 5, Stamina: 4}}, RawWin: "120"},
			},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 2 {
		t.Fatalf("expected combat + choice, got %+v", events)
	}
	if _, ok := events[0].(domain.Combat); !ok {
		t.Fatalf("combat should come first, got %T", events[0])
	}
	ch := events[1].(domain.Choice)
	if ch.Target.Target != "120" {
		t.Errorf("outcome choice should follow its mechanic: %+v", ch)
	}
}

func TestSequenceSection_ChoicesBeforeOwningCombat(t *testing.T) {
	markup := "If you win, turn to [[57]]. If victorious, turn to [[57]]. GOBLIN SKILL 5 STAMINA 4."
	sec := domain.Section{
		ID:        "71",
		RawText:   "If you win, turn to 57. If victorious, turn to 57. GOBLIN SKILL 5 STAMINA 4.",
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Choices: []domain.ChoiceHint{
				{Label: "If you win", RawTarget: "57"},
				{Label: "If victorious", RawTarget: "57"},
			},
			Combats: []domain.CombatSignal{
				{Enemies: []domain.Enemy{{Name: "GOBLIN", Skill: 5, Stamina: 4}}, RawWin: "57"},
			},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 3 {
		t.Fatalf("expected combat + 2 choices, got %+v", events)
	}
	if _, ok := events[0].(domain.Combat); !ok {
		t.Fatalf("combat should come first, got %T", events[0])
	}
	first := events[1].(domain.Choice)
	second := events[2].(domain.Choice)
	if first.Label != "If you win" || second.Label != "If victorious" {
		t.Errorf("outcome choices out of order: %+v then %+v", first, second)
	}
}

func TestSequenceSection_UnanchoredTailOrder(t *testing.T) {
	sec := domain.Section{
		ID:       "3",
		RawText:  "Nothing here.",
		Gameplay: true,
		Signals: domain.Signals{
			StatChanges: []domain.StatChangeSignal{{Stat: "HONOUR", Amount: -1}},
			Choices:     []domain.ChoiceHint{{RawTarget: "9"}},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if _, ok := events[0].(domain.Choice); !ok {
		t.Errorf("unanchored choices come before unanchored stat changes: %+v", events)
	}
}

func TestSequenceSection_NeverLongerThanSignalCount(t *testing.T) {
	sec := domain.Section{
		ID:        "88",
		RawText:   "The blade bites deep. Lose 2 STAMINA. If you are still alive, turn to 90.",
		RawMarkup: "The blade bites deep. Lose 2 STAMINA. If you are still alive, turn to [[90]].",
		Gameplay:  true,
		Signals: domain.Signals{
			StatChanges: []domain.StatChangeSignal{
				{Stat: "STAMINA", Amount: -2},
				{Stat: "STAMINA", Amount: -2},
			},
			StatChecks: []domain.StatCheckSignal{
				{Stat: "STAMINA", RawPass: "continue", RawFail: "death"},
			},
			Choices: []domain.ChoiceHint{{RawTarget: "90"}},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	if len(events) > sec.Signals.Count() {
		t.Errorf("sequencing must never invent events: %d > %d", len(events), sec.Signals.Count())
	}
}

func TestSequenceSection_Deterministic(t *testing.T) {
	sec := domain.Section{
		ID:        "70",
		RawText:   "If you win, turn to 120. GOBLIN attacks. Lose 1 LUCK.",
		RawMarkup: "If you win, turn to [[120]]. GOBLIN attacks. Lose 1 LUCK.",
		Gameplay:  true,
		Signals: domain.Signals{
			Choices:     []domain.ChoiceHint{{RawTarget: "120"}},
			StatChanges: []domain.StatChangeSignal{{Stat: "LUCK", Amount: -1}},
			Combats: []domain.CombatSignal{
				{Enemies: []domain.Enemy{{Name: "GOBLIN", Skill: 5, Stamina: 4}}, RawWin: "120", RawLose: "death"},
			},
		},
	}

	first, _ := SequenceSection(sec, testRange)
	want, err := domain.MarshalEvents(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := SequenceSection(sec, testRange)
		got, err := domain.MarshalEvents(again)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("iteration %d: sequence differs\n%s\n%s", i, got, want)
		}
	}
}

func TestSequenceSection_IdempotentOnOwnOutput(t *testing.T) {
	markup := "Lose 1 LUCK. If you win, turn to [[120]]. GOBLIN SKILL 5 STAMINA 4. If you flee, turn to [[30]]."
	sec := domain.Section{
		ID:        "70",
		RawText:   "Lose 1 LUCK. If you win, turn to 120. GOBLIN SKILL 5 STAMINA 4. If you flee, turn to 30.",
		RawMarkup: markup,
		Gameplay:  true,
		Signals: domain.Signals{
			Choices: []domain.ChoiceHint{
				{Label: "If you win", RawTarget: "120"},
				{Label: "If you flee", RawTarget: "30"},
			},
			StatChanges: []domain.StatChangeSignal{{Stat: "LUCK", Amount: -1}},
			Combats: []domain.CombatSignal{
				{Enemies: []domain.Enemy{{Name: "GOBLIN", Skill: 5, Stamina: 4}}, RawWin: "120", RawLose: "death"},
			},
		},
	}

	events, _ := SequenceSection(sec, testRange)
	want, err := domain.MarshalEvents(events)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Feed the sequenced output back through the ordering and dedup passes,
	// with its own positions as anchors. A fixed point means no pass ever
	// reshuffles an already-canonical sequence.
	pendings := make([]pending, len(events))
	for i, ev := range events {
		pendings[i] = pending{event: ev, anchor: i, orig: i}
	}
	var discards []Discard
	pendings = orderByAnchor(pendings)
	pendings = dedupe(pendings, &discards)
	pendings = reorderOutcomeChoices(pendings)
	if len(discards) != 0 {
		t.Fatalf("rerun produced discards: %+v", discards)
	}

	again := make([]domain.Event, 0, len(pendings))
	for _, p := range pendings {
		again = append(again, p.event)
	}
	got, err := domain.MarshalEvents(again)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("sequence is not a fixed point\nfirst:  %s\nsecond: %s", want, got)
	}
}
