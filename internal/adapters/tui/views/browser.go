package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookgraph/internal/adapters/tui/styles"
	"bookgraph/internal/domain"
)

// BrowserKeyMap defines key bindings for the section browser
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Enter    key.Binding
	Copy     key.Binding
	Filter   key.Binding
	Jump     key.Binding
	Report   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy id"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Jump: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to"),
	),
	Report: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "report"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// FilterMode selects which sections the browser lists.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterFlagged
	FilterStubs
	FilterUnreachable
)

func (f FilterMode) String() string {
	switch f {
	case FilterFlagged:
		return "flagged"
	case FilterStubs:
		return "stubs"
	case FilterUnreachable:
		return "unreachable"
	default:
		return "all"
	}
}

// SectionRow is one browser line: a section id plus the validation flags
// attached to it.
type SectionRow struct {
	ID    string
	Node  *domain.CompiledSection
	Flags []string
}

// BrowserModel lists the compiled sections with their validation state.
type BrowserModel struct {
	ViewState

	graph   *domain.Graph
	inbound map[string]int
	flags   map[string][]string

	rows   []SectionRow
	filter FilterMode
	pager  *Paginator

	jumping bool
	jump    *JumpPrompt
}

const browserPageSize = 20

// NewBrowserModel creates a browser over a compiled graph and its report.
func NewBrowserModel(g *domain.Graph, rep *domain.ValidationReport) *BrowserModel {
	m := &BrowserModel{
		graph:   g,
		inbound: g.InboundCounts(),
		flags:   FlagIndex(g, rep),
		pager:   NewPaginator(browserPageSize),
		jump:    NewJumpPrompt(),
	}
	m.applyFilter()
	return m
}

// FlagIndex builds the per-section validation flag lookup.
func FlagIndex(g *domain.Graph, rep *domain.ValidationReport) map[string][]string {
	flags := make(map[string][]string)
	add := func(ids []string, flag string) {
		for _, id := range ids {
			flags[id] = append(flags[id], flag)
		}
	}
	if rep != nil {
		add(rep.Duplicates, "duplicate")
		add(rep.NoTextSections, "no-text")
		add(rep.NoChoiceSections, "no-choices")
		add(rep.Unreachable, "unreachable")
		for _, s := range rep.OrphanSuspects {
			flags[s.OrphanID] = append(flags[s.OrphanID],
				fmt.Sprintf("orphan?=%s", s.SuspectTarget))
		}
	}
	for id := range g.StubIDs {
		flags[id] = append(flags[id], "stub")
	}
	return flags
}

// FilterRows returns the section rows matching the filter, in canonical
// id order.
func FilterRows(g *domain.Graph, flags map[string][]string, filter FilterMode) []SectionRow {
	var rows []SectionRow
	for _, id := range g.IDs() {
		node := g.Nodes[id]
		fl := flags[id]
		switch filter {
		case FilterFlagged:
			if len(fl) == 0 {
				continue
			}
		case FilterStubs:
			if !node.Stub() {
				continue
			}
		case FilterUnreachable:
			if !hasFlag(fl, "unreachable") {
				continue
			}
		}
		rows = append(rows, SectionRow{ID: id, Node: node, Flags: fl})
	}
	return rows
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func (m *BrowserModel) applyFilter() {
	m.rows = FilterRows(m.graph, m.flags, m.filter)
	m.pager.Reset()
	m.pager.SetTotal(len(m.rows))
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.jumping {
			return m.updateJump(msg)
		}

		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, BrowserKeys.PrevPage):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextPage):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			if row := m.selectedRow(); row != nil {
				id := row.ID
				return m, func() tea.Msg {
					return SwitchToDetailMsg{ID: id}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if row := m.selectedRow(); row != nil {
				return m, m.copyID(row.ID)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Filter):
			m.filter = (m.filter + 1) % 4
			m.applyFilter()
			return m, nil

		case key.Matches(msg, BrowserKeys.Jump):
			m.jumping = true
			return m, m.jump.Open()

		case key.Matches(msg, BrowserKeys.Report):
			return m, func() tea.Msg {
				return SwitchToReportMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, JumpKeys.Cancel):
		m.jumping = false
		m.jump.Close()
		return m, nil

	case key.Matches(msg, JumpKeys.Submit):
		m.jumping = false
		m.jump.Close()
		id := m.jump.Value()
		if id == "" {
			return m, nil
		}
		if _, ok := m.graph.Nodes[id]; !ok {
			m.SetMessage(fmt.Sprintf("no section %s", id), true)
			return m, nil
		}
		return m, func() tea.Msg {
			return SwitchToDetailMsg{ID: id}
		}
	}

	return m, m.jump.Update(msg)
}

func (m *BrowserModel) copyID(id string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(id); err != nil {
			return errMsg{err}
		}
		return successMsg{fmt.Sprintf("Copied %s", id)}
	}
}

func (m *BrowserModel) selectedRow() *SectionRow {
	cur := m.pager.Cursor()
	if cur >= 0 && cur < len(m.rows) {
		return &m.rows[cur]
	}
	return nil
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Bookgraph"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d sections • start %s • filter: %s",
		len(m.graph.Nodes), m.graph.StartID, m.filter)))
	b.WriteString("\n\n")

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.pager.Cursor()))
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(styles.MutedText.Render("(no sections match this filter)"))
		b.WriteString("\n")
	}

	if m.pager.TotalPages() > 1 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d",
			m.pager.CurrentPage(), m.pager.TotalPages())))
	}

	if m.jumping {
		b.WriteString("\n\n")
		b.WriteString(m.jump.View())
		return styles.App.Render(b.String())
	}

	if m.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(m.StatusLine())
	}

	b.WriteString("\n\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Down, BrowserKeys.Enter, BrowserKeys.Copy,
		BrowserKeys.Filter, BrowserKeys.Jump, BrowserKeys.Report,
		BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderRow(row SectionRow, selected bool) string {
	text := FormatRow(row, m.graph.StartID, m.inbound[row.ID])

	if selected {
		return styles.RowSelected.Render(text)
	}
	return rowStyle(row, m.graph.StartID).Render(text)
}

func rowStyle(row SectionRow, startID string) lipgloss.Style {
	switch {
	case row.ID == startID:
		return styles.RowStart
	case row.Node.Stub():
		return styles.RowStub
	case row.Node.EndGame:
		return styles.RowEnding
	case row.Node.Gameplay:
		return styles.RowGameplay
	default:
		return styles.RowFrontMatter
	}
}

// FormatRow renders one browser line as plain text.
func FormatRow(row SectionRow, startID string, inbound int) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%-6s", row.ID))
	parts = append(parts, fmt.Sprintf("in:%-3d out:%-3d", inbound, len(row.Node.Nav.Targets)))

	var marks []string
	if row.ID == startID {
		marks = append(marks, "start")
	}
	if row.Node.EndGame {
		marks = append(marks, "ending")
	}
	marks = append(marks, row.Flags...)
	if len(marks) > 0 {
		parts = append(parts, "["+strings.Join(marks, ", ")+"]")
	}

	return strings.Join(parts, "  ")
}

// Messages for view switching
type SwitchToDetailMsg struct {
	ID string
}

type SwitchToReportMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
