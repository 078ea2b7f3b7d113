package domain

import (
	"encoding/json"
	"fmt"
)

// EventKind tags the concrete type of an Event.
type EventKind string

const (
	KindChoice      EventKind = "choice"
	KindStatChange  EventKind = "stat_change"
	KindStatCheck   EventKind = "stat_check"
	KindItemOp      EventKind = "item"
	KindItemCheck   EventKind = "item_check"
	KindStateCheck  EventKind = "state_check"
	KindTestLuck    EventKind = "test_luck"
	KindCombat      EventKind = "combat"
	KindDeath       EventKind = "death"
	KindConditional EventKind = "conditional"
)

// Event is one step of gameplay logic inside a section's ordered sequence.
// The set of implementations is closed; consumers type-switch over it.
type Event interface {
	Kind() EventKind
	isEvent()
}

// Choice is a player decision jumping to a target section, optionally
// carrying effects that only apply when this choice is taken.
type Choice struct {
	Target  *Outcome
	Label   string
	Effects []Event
}

// StatChange adjusts a stat by a fixed amount.
type StatChange struct {
	Stat   string
	Amount int
	Scope  string
}

// StatCheck is a dice roll against a stat with pass/fail branches.
type StatCheck struct {
	Stat string
	Dice string
	Pass *Outcome
	Fail *Outcome
}

// ItemOp adds or removes an inventory item. Optional ops record "you may
// take X" phrasing; they never gate navigation.
type ItemOp struct {
	Action   ItemAction
	Item     string
	Optional bool
}

// ItemCheck branches on possession of an item (or all of several).
type ItemCheck struct {
	Item     string
	ItemsAll []string
	Has      *Outcome
	Missing  *Outcome
}

// StateCheck branches on a free-form narrative condition.
type StateCheck struct {
	Condition string
	Has       *Outcome
	Missing   *Outcome
}

// TestLuck is a Test-your-Luck roll with lucky/unlucky branches.
type TestLuck struct {
	Lucky   *Outcome
	Unlucky *Outcome
}

// Combat is a fight against one or more enemies with win/lose/escape
// outcomes.
type Combat struct {
	Enemies []Enemy
	Win     *Outcome
	Lose    *Outcome
	Escape  *Outcome
}

// Death ends the adventure.
type Death struct {
	Outcome     *Outcome
	Description string
}

// Conditional guards a bundle of events behind a condition; the events in
// Then only apply together, when the condition holds.
type Conditional struct {
	Condition string
	Then      []Event
}

func (Choice) Kind() EventKind      { return KindChoice }
func (StatChange) Kind() EventKind  { return KindStatChange }
func (StatCheck) Kind() EventKind   { return KindStatCheck }
func (ItemOp) Kind() EventKind      { return KindItemOp }
func (ItemCheck) Kind() EventKind   { return KindItemCheck }
func (StateCheck) Kind() EventKind  { return KindStateCheck }
func (TestLuck) Kind() EventKind    { return KindTestLuck }
func (Combat) Kind() EventKind      { return KindCombat }
func (Death) Kind() EventKind       { return KindDeath }
func (Conditional) Kind() EventKind { return KindConditional }

func (Choice) isEvent()      {}
func (StatChange) isEvent()  {}
func (StatCheck) isEvent()   {}
func (ItemOp) isEvent()      {}
func (ItemCheck) isEvent()   {}
func (StateCheck) isEvent()  {}
func (TestLuck) isEvent()    {}
func (Combat) isEvent()      {}
func (Death) isEvent()       {}
func (Conditional) isEvent() {}

// Outcomes returns every outcome reachable from the events, including
// those nested in Conditional bundles and choice effects.
func Outcomes(events []Event) []*Outcome {
	var outs []*Outcome
	add := func(o *Outcome) {
		if o != nil {
			outs = append(outs, o)
		}
	}
	for _, ev := range events {
		switch e := ev.(type) {
		case Choice:
			add(e.Target)
			outs = append(outs, Outcomes(e.Effects)...)
		case StatCheck:
			add(e.Pass)
			add(e.Fail)
		case ItemCheck:
			add(e.Has)
			add(e.Missing)
		case StateCheck:
			add(e.Has)
			add(e.Missing)
		case TestLuck:
			add(e.Lucky)
			add(e.Unlucky)
		case Combat:
			add(e.Win)
			add(e.Lose)
			add(e.Escape)
		case Death:
			add(e.Outcome)
		case Conditional:
			outs = append(outs, Outcomes(e.Then)...)
		}
	}
	return outs
}

// Targets returns the section ids referenced by the events, in encounter
// order, duplicates included.
func Targets(events []Event) []string {
	var ids []string
	for _, out := range Outcomes(events) {
		if out.IsTarget() {
			ids = append(ids, out.Target)
		}
	}
	return ids
}

// eventJSON is the wire shape for the tagged union.
type eventJSON struct {
	Type EventKind `json:"type"`

	Target  *Outcome          `json:"target,omitempty"`
	Label   string            `json:"label,omitempty"`
	Effects []json.RawMessage `json:"effects,omitempty"`

	Stat   string `json:"stat,omitempty"`
	Amount int    `json:"amount,omitempty"`
	Scope  string `json:"scope,omitempty"`
	Dice   string `json:"dice,omitempty"`

	Pass    *Outcome `json:"pass,omitempty"`
	Fail    *Outcome `json:"fail,omitempty"`
	Has     *Outcome `json:"has,omitempty"`
	Missing *Outcome `json:"missing,omitempty"`
	Lucky   *Outcome `json:"lucky,omitempty"`
	Unlucky *Outcome `json:"unlucky,omitempty"`
	Win     *Outcome `json:"win,omitempty"`
	Lose    *Outcome `json:"lose,omitempty"`
	Escape  *Outcome `json:"escape,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`

	Action   ItemAction `json:"action,omitempty"`
	Item     string     `json:"item,omitempty"`
	ItemsAll []string   `json:"items_all,omitempty"`
	Optional bool       `json:"optional,omitempty"`

	Condition   string            `json:"condition,omitempty"`
	Description string            `json:"description,omitempty"`
	Enemies     []Enemy           `json:"enemies,omitempty"`
	Then        []json.RawMessage `json:"then,omitempty"`
}

// MarshalEvent encodes an event with its type tag.
func MarshalEvent(ev Event) ([]byte, error) {
	w := eventJSON{Type: ev.Kind()}
	switch e := ev.(type) {
	case Choice:
		w.Target = e.Target
		w.Label = e.Label
		for _, fx := range e.Effects {
			b, err := MarshalEvent(fx)
			if err != nil {
				return nil, err
			}
			w.Effects = append(w.Effects, b)
		}
	case StatChange:
		w.Stat, w.Amount, w.Scope = e.Stat, e.Amount, e.Scope
	case StatCheck:
		w.Stat, w.Dice, w.Pass, w.Fail = e.Stat, e.Dice, e.Pass, e.Fail
	case ItemOp:
		w.Action, w.Item, w.Optional = e.Action, e.Item, e.Optional
	case ItemCheck:
		w.Item, w.ItemsAll, w.Has, w.Missing = e.Item, e.ItemsAll, e.Has, e.Missing
	case StateCheck:
		w.Condition, w.Has, w.Missing = e.Condition, e.Has, e.Missing
	case TestLuck:
		w.Lucky, w.Unlucky = e.Lucky, e.Unlucky
	case Combat:
		w.Enemies, w.Win, w.Lose, w.Escape = e.Enemies, e.Win, e.Lose, e.Escape
	case Death:
		w.Outcome, w.Description = e.Outcome, e.Description
	case Conditional:
		w.Condition = e.Condition
		for _, t := range e.Then {
			b, err := MarshalEvent(t)
			if err != nil {
				return nil, err
			}
			w.Then = append(w.Then, b)
		}
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
	return json.Marshal(w)
}

// UnmarshalEvent decodes a tagged event.
func UnmarshalEvent(data []byte) (Event, error) {
	var w eventJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case KindChoice:
		effects, err := unmarshalEvents(w.Effects)
		if err != nil {
			return nil, err
		}
		return Choice{Target: w.Target, Label: w.Label, Effects: effects}, nil
	case KindStatChange:
		return StatChange{Stat: w.Stat, Amount: w.Amount, Scope: w.Scope}, nil
	case KindStatCheck:
		return StatCheck{Stat: w.Stat, Dice: w.Dice, Pass: w.Pass, Fail: w.Fail}, nil
	case KindItemOp:
		return ItemOp{Action: w.Action, Item: w.Item, Optional: w.Optional}, nil
	case KindItemCheck:
		return ItemCheck{Item: w.Item, ItemsAll: w.ItemsAll, Has: w.Has, Missing: w.Missing}, nil
	case KindStateCheck:
		return StateCheck{Condition: w.Condition, Has: w.Has, Missing: w.Missing}, nil
	case KindTestLuck:
		return TestLuck{Lucky: w.Lucky, Unlucky: w.Unlucky}, nil
	case KindCombat:
		return Combat{Enemies: w.Enemies, Win: w.Win, Lose: w.Lose, Escape: w.Escape}, nil
	case KindDeath:
		return Death{Outcome: w.Outcome, Description: w.Description}, nil
	case KindConditional:
		then, err := unmarshalEvents(w.Then)
		if err != nil {
			return nil, err
		}
		return Conditional{Condition: w.Condition, Then: then}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", w.Type)
	}
}

func unmarshalEvents(raws []json.RawMessage) ([]Event, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := UnmarshalEvent(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// MarshalEvents encodes a sequence as a JSON array.
func MarshalEvents(events []Event) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(events))
	for _, ev := range events {
		b, err := MarshalEvent(ev)
		if err != nil {
			return nil, err
		}
		raws = append(raws, b)
	}
	return json.Marshal(raws)
}

// UnmarshalEvents decodes a JSON array of tagged events.
func UnmarshalEvents(data []byte) ([]Event, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return unmarshalEvents(raws)
}
