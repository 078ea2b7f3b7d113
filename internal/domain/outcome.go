package domain

import (
	"encoding/json"
	"fmt"
)

// TerminalKind classifies a non-navigable outcome.
type TerminalKind string

const (
	TerminalDeath    TerminalKind = "death"
	TerminalContinue TerminalKind = "continue"
	TerminalOther    TerminalKind = "other"
)

// Terminal is an outcome that ends or suspends navigation instead of
// jumping to another section.
type Terminal struct {
	Kind    TerminalKind `json:"kind"`
	Message string       `json:"message,omitempty"`
}

// Outcome is either a jump to a canonical section id or a Terminal,
// never both. Construct only via TargetOutcome and TerminalOutcome.
type Outcome struct {
	Target   string
	Terminal *Terminal
}

// TargetOutcome builds a navigable outcome pointing at a section id.
func TargetOutcome(id string) *Outcome {
	return &Outcome{Target: id}
}

// TerminalOutcome builds a non-navigable outcome.
func TerminalOutcome(kind TerminalKind, message string) *Outcome {
	return &Outcome{Terminal: &Terminal{Kind: kind, Message: message}}
}

// IsTarget reports whether the outcome jumps to a section.
func (o *Outcome) IsTarget() bool {
	return o != nil && o.Target != ""
}

func (o *Outcome) String() string {
	switch {
	case o == nil:
		return "<none>"
	case o.Terminal != nil:
		return fmt.Sprintf("terminal(%s)", o.Terminal.Kind)
	default:
		return "-> " + o.Target
	}
}

type outcomeJSON struct {
	Target   string    `json:"target,omitempty"`
	Terminal *Terminal `json:"terminal,omitempty"`
}

// MarshalJSON encodes the outcome as {"target": id} or {"terminal": {...}}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{Target: o.Target, Terminal: o.Terminal})
}

// UnmarshalJSON rejects outcomes that carry both a target and a terminal.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw outcomeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Target != "" && raw.Terminal != nil {
		return fmt.Errorf("outcome has both target %q and terminal", raw.Target)
	}
	o.Target = raw.Target
	o.Terminal = raw.Terminal
	return nil
}
