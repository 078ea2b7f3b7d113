package extraction

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
	"bookgraph/internal/ports"
)

// maxLineBytes bounds a single JSONL record. OCR text for one section is
// a few KB; this leaves generous headroom.
const maxLineBytes = 4 << 20

// Source reads extracted sections from a JSONL file, one record per line.
type Source struct {
	Path string
}

// Ensure Source implements SectionSource
var _ ports.SectionSource = (*Source)(nil)

// NewSource creates a JSONL section source
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// record is the wire shape produced by the upstream extraction stage.
type record struct {
	ID         string `json:"id"`
	RawText    string `json:"raw_text"`
	RawMarkup  string `json:"raw_markup"`
	IsGameplay bool   `json:"is_gameplay"`
	Type       string `json:"type"`

	Choices []struct {
		Label  string `json:"label"`
		Target string `json:"target"`
	} `json:"choices"`
	StatChanges []struct {
		Stat   string `json:"stat"`
		Amount int    `json:"amount"`
		Scope  string `json:"scope"`
	} `json:"stat_changes"`
	StatChecks []struct {
		Stat string `json:"stat"`
		Dice string `json:"dice"`
		Pass string `json:"pass"`
		Fail string `json:"fail"`
	} `json:"stat_checks"`
	Combat []struct {
		Enemies []struct {
			Name    string `json:"name"`
			Skill   int    `json:"skill"`
			Stamina int    `json:"stamina"`
		} `json:"enemies"`
		Win    string `json:"win"`
		Lose   string `json:"lose"`
		Escape string `json:"escape"`
	} `json:"combat"`
	Items []struct {
		Name     string `json:"name"`
		Action   string `json:"action"`
		Optional bool   `json:"optional"`
	} `json:"items"`
	ItemChecks []struct {
		Item     string   `json:"item"`
		ItemsAll []string `json:"items_all"`
		Has      string   `json:"has"`
		Missing  string   `json:"missing"`
	} `json:"item_checks"`
	StateChecks []struct {
		Condition string `json:"condition"`
		Has       string `json:"has"`
		Missing   string `json:"missing"`
	} `json:"state_checks"`
	TestLuck []struct {
		Lucky   string `json:"lucky"`
		Unlucky string `json:"unlucky"`
	} `json:"test_luck"`
	Deaths []struct {
		Description string `json:"description"`
	} `json:"deaths"`
}

// Load reads every section record, rejecting duplicate ids.
func (s *Source) Load() ([]domain.Section, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sections file: %w", err)
	}
	defer f.Close()

	var sections []domain.Section
	seen := map[string]bool{}
	var dups []string
	dupSeen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", line, err)
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("line %d: record has no id", line)
		}

		if seen[rec.ID] {
			if !dupSeen[rec.ID] {
				dupSeen[rec.ID] = true
				dups = append(dups, rec.ID)
			}
			continue
		}
		seen[rec.ID] = true
		sections = append(sections, rec.toSection())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sections file: %w", err)
	}

	if len(dups) > 0 {
		domain.SortIDs(dups)
		return nil, &application.DuplicateSectionsError{IDs: dups}
	}
	return sections, nil
}

func (r record) toSection() domain.Section {
	sec := domain.Section{
		ID:        r.ID,
		RawText:   r.RawText,
		RawMarkup: r.RawMarkup,
		Gameplay:  r.IsGameplay,
		Type:      domain.ParseSectionType(r.Type),
	}

	for _, c := range r.Choices {
		sec.Signals.Choices = append(sec.Signals.Choices, domain.ChoiceHint{
			Label:     c.Label,
			RawTarget: c.Target,
		})
	}
	for _, sc := range r.StatChanges {
		sec.Signals.StatChanges = append(sec.Signals.StatChanges, domain.StatChangeSignal{
			Stat:   sc.Stat,
			Amount: sc.Amount,
			Scope:  sc.Scope,
		})
	}
	for _, sc := range r.StatChecks {
		sec.Signals.StatChecks = append(sec.Signals.StatChecks, domain.StatCheckSignal{
			Stat:    sc.Stat,
			Dice:    sc.Dice,
			RawPass: sc.Pass,
			RawFail: sc.Fail,
		})
	}
	for _, cb := range r.Combat {
		sig := domain.CombatSignal{
			RawWin:    cb.Win,
			RawLose:   cb.Lose,
			RawEscape: cb.Escape,
		}
		for _, e := range cb.Enemies {
			sig.Enemies = append(sig.Enemies, domain.Enemy{
				Name:    e.Name,
				Skill:   e.Skill,
				Stamina: e.Stamina,
			})
		}
		sec.Signals.Combats = append(sec.Signals.Combats, sig)
	}
	for _, it := range r.Items {
		action := domain.ItemAdd
		if it.Action == string(domain.ItemRemove) {
			action = domain.ItemRemove
		}
		sec.Signals.Items = append(sec.Signals.Items, domain.ItemSignal{
			Name:     it.Name,
			Action:   action,
			Optional: it.Optional,
		})
	}
	for _, ic := range r.ItemChecks {
		sec.Signals.ItemChecks = append(sec.Signals.ItemChecks, domain.ItemCheckSignal{
			Item:       ic.Item,
			ItemsAll:   ic.ItemsAll,
			RawHas:     ic.Has,
			RawMissing: ic.Missing,
		})
	}
	for _, st := range r.StateChecks {
		sec.Signals.StateChecks = append(sec.Signals.StateChecks, domain.StateCheckSignal{
			Condition:  st.Condition,
			RawHas:     st.Has,
			RawMissing: st.Missing,
		})
	}
	for _, tl := range r.TestLuck {
		sec.Signals.TestLucks = append(sec.Signals.TestLucks, domain.TestLuckSignal{
			RawLucky:   tl.Lucky,
			RawUnlucky: tl.Unlucky,
		})
	}
	for _, d := range r.Deaths {
		sec.Signals.Deaths = append(sec.Signals.Deaths, domain.DeathSignal{
			Description: d.Description,
		})
	}

	return sec
}
