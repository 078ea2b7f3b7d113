package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui/styles"
)

// JumpKeyMap defines key bindings for the jump prompt
type JumpKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var JumpKeys = JumpKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// JumpPrompt is the inline section-id prompt the browser opens on "g".
type JumpPrompt struct {
	input textinput.Model
}

// NewJumpPrompt creates the prompt, unfocused until Open.
func NewJumpPrompt() *JumpPrompt {
	input := textinput.New()
	input.Placeholder = "e.g. 157"
	input.CharLimit = 12
	return &JumpPrompt{input: input}
}

// Open clears any previous entry and focuses the prompt.
func (p *JumpPrompt) Open() tea.Cmd {
	p.input.SetValue("")
	p.input.Focus()
	return textinput.Blink
}

// Close blurs the prompt.
func (p *JumpPrompt) Close() {
	p.input.Blur()
}

// Value returns the entered section id, trimmed.
func (p *JumpPrompt) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// Update forwards a message to the text input.
func (p *JumpPrompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt with its help line.
func (p *JumpPrompt) View() string {
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render("Go to section"))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(p.input.View()))
	b.WriteString("\n")
	b.WriteString(RenderKeyHelp(JumpKeys.Submit))
	b.WriteString("  ")
	b.WriteString(RenderKeyHelp(JumpKeys.Cancel))
	return b.String()
}
