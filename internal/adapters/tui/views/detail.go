package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui/styles"
	"bookgraph/internal/domain"
)

// DetailKeyMap defines key bindings for the section detail view
type DetailKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Follow key.Binding
	Copy   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var DetailKeys = DetailKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "prev target"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next target"),
	),
	Follow: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "follow"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy id"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// DetailModel shows one compiled section: text, event sequence, and its
// place in the graph. The target list is navigable so the graph can be
// walked edge by edge.
type DetailModel struct {
	ViewState

	graph  *domain.Graph
	node   *domain.CompiledSection
	flags  []string
	cursor int
}

// NewDetailModel creates an empty detail view; Show loads a section into it.
func NewDetailModel(g *domain.Graph) *DetailModel {
	return &DetailModel{graph: g}
}

// Show points the view at a section.
func (m *DetailModel) Show(id string, flags []string) {
	m.node = m.graph.Nodes[id]
	m.flags = flags
	m.cursor = 0
	m.ClearMessage()
}

// Init initializes the detail view
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		if m.node == nil {
			return m, nil
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, DetailKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, DetailKeys.Back):
			return m, func() tea.Msg {
				return DetailClosedMsg{}
			}

		case key.Matches(msg, DetailKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Down):
			if m.cursor < len(m.node.Nav.Targets)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Follow):
			targets := m.node.Nav.Targets
			if m.cursor >= 0 && m.cursor < len(targets) {
				id := targets[m.cursor]
				return m, func() tea.Msg {
					return SwitchToDetailMsg{ID: id}
				}
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Copy):
			id := m.node.ID
			return m, func() tea.Msg {
				if err := clipboard.WriteAll(id); err != nil {
					return errMsg{err}
				}
				return successMsg{fmt.Sprintf("Copied %s", id)}
			}
		}
	}

	return m, nil
}

// View renders the detail view
func (m *DetailModel) View() string {
	if m.node == nil {
		return styles.App.Render("No section selected.")
	}

	var b strings.Builder

	header := fmt.Sprintf("Section %s (%s)", m.node.ID, m.node.Type)
	b.WriteString(styles.Title.Render(header))
	b.WriteString("\n")

	var marks []string
	if m.node.ID == m.graph.StartID {
		marks = append(marks, "start")
	}
	if m.node.Stub() {
		marks = append(marks, fmt.Sprintf("stub: %s", m.node.StubReason))
	}
	if m.node.EndGame {
		marks = append(marks, "ending")
	}
	marks = append(marks, m.flags...)
	if len(marks) > 0 {
		b.WriteString(styles.FlagWarning.Render(strings.Join(marks, " • ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.node.RawText != "" {
		b.WriteString(m.node.RawText)
		b.WriteString("\n\n")
	} else {
		b.WriteString(styles.MutedText.Render("(no text)"))
		b.WriteString("\n\n")
	}

	if len(m.node.Sequence) > 0 {
		b.WriteString(styles.InputLabel.Render("Events"))
		b.WriteString("\n")
		for i, ev := range m.node.Sequence {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, EventLine(ev)))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.InputLabel.Render("Targets"))
	b.WriteString("\n")
	if len(m.node.Nav.Targets) == 0 {
		b.WriteString(styles.MutedText.Render("  (none)"))
		b.WriteString("\n")
	}
	for i, t := range m.node.Nav.Targets {
		line := fmt.Sprintf("  %s", t)
		if _, ok := m.graph.Nodes[t]; !ok {
			line += "  (missing)"
		}
		if i == m.cursor {
			b.WriteString(styles.RowSelected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderLabelValue("Referenced by",
		fmt.Sprintf("%d sections", m.graph.InboundCounts()[m.node.ID])))
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(m.StatusLine())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		DetailKeys.Down, DetailKeys.Follow, DetailKeys.Copy,
		DetailKeys.Back, DetailKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// DetailClosedMsg asks the app to leave the detail view.
type DetailClosedMsg struct{}

// EventLine renders one event as a single descriptive line.
func EventLine(ev domain.Event) string {
	switch e := ev.(type) {
	case domain.Choice:
		label := e.Label
		if label == "" {
			label = "(unlabelled)"
		}
		return fmt.Sprintf("choice %s %s", label, e.Target)
	case domain.StatChange:
		return fmt.Sprintf("%s %+d", e.Stat, e.Amount)
	case domain.StatCheck:
		return fmt.Sprintf("test %s: pass %s, fail %s", e.Stat, e.Pass, e.Fail)
	case domain.ItemOp:
		line := fmt.Sprintf("%s %q", e.Action, e.Item)
		if e.Optional {
			line += " (optional)"
		}
		return line
	case domain.ItemCheck:
		return fmt.Sprintf("if carrying %q: %s, else %s", e.Item, e.Has, e.Missing)
	case domain.StateCheck:
		return fmt.Sprintf("if %q: %s, else %s", e.Condition, e.Has, e.Missing)
	case domain.TestLuck:
		return fmt.Sprintf("test luck: lucky %s, unlucky %s", e.Lucky, e.Unlucky)
	case domain.Combat:
		var names []string
		for _, en := range e.Enemies {
			names = append(names, en.Name)
		}
		return fmt.Sprintf("fight %s: win %s, lose %s", strings.Join(names, "+"), e.Win, e.Lose)
	case domain.Death:
		return fmt.Sprintf("death: %s", e.Description)
	case domain.Conditional:
		return fmt.Sprintf("if %q: %d events", e.Condition, len(e.Then))
	default:
		return string(ev.Kind())
	}
}
