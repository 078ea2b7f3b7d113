package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Bookgraph Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Gamebook Graph Browser"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Browser"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("h / l / ← / →", "Previous/next page"))
	b.WriteString(helpLine("Enter", "Open section detail"))
	b.WriteString(helpLine("c", "Copy section id to clipboard"))
	b.WriteString(helpLine("f", "Cycle filter (all/flagged/stubs/unreachable)"))
	b.WriteString(helpLine("g", "Go to section by id"))
	b.WriteString(helpLine("r", "Validation report"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Section Detail"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k", "Select target"))
	b.WriteString(helpLine("Enter", "Follow selected target"))
	b.WriteString(helpLine("Esc / Backspace", "Back to previous section"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Row Flags"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  stub        : placeholder for a referenced-but-absent section"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  unreachable : no path from the start section"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  no-choices  : dead end that does not end the game"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  orphan?=N   : inbound references to N may be misreads of this id"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
