package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui/styles"
	"bookgraph/internal/domain"
)

// ReportKeyMap defines key bindings for the report view
type ReportKeyMap struct {
	PrevPage key.Binding
	NextPage key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var ReportKeys = ReportKeyMap{
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "k", "up", "pgup"),
		key.WithHelp("h/k", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "j", "down", "pgdown"),
		key.WithHelp("l/j", "next page"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace", "r"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ReportModel shows the validation report, paging through its findings.
type ReportModel struct {
	ViewState

	report *domain.ValidationReport
	lines  []reportLine
	pager  *Paginator
}

type reportLine struct {
	text  string
	fatal bool
}

const reportPageSize = 18

// NewReportModel creates a report view.
func NewReportModel(rep *domain.ValidationReport) *ReportModel {
	m := &ReportModel{
		report: rep,
		lines:  reportLines(rep),
		pager:  NewPaginator(reportPageSize),
	}
	m.pager.SetTotal(len(m.lines))
	return m
}

func reportLines(rep *domain.ValidationReport) []reportLine {
	var lines []reportLine
	for _, e := range rep.Errors {
		lines = append(lines, reportLine{text: e, fatal: true})
	}
	for _, w := range rep.Warnings {
		lines = append(lines, reportLine{text: w})
	}
	for _, s := range rep.OrphanSuspects {
		lines = append(lines, reportLine{
			text: fmt.Sprintf("orphan %s: %d references may belong to it as misreads of %s",
				s.OrphanID, s.InboundCount, s.SuspectTarget),
		})
	}
	return lines
}

// Init initializes the report view
func (m *ReportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the report view
func (m *ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ReportKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, ReportKeys.Back):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, ReportKeys.PrevPage):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, ReportKeys.NextPage):
			m.pager.NextPage()
			return m, nil
		}
	}

	return m, nil
}

// View renders the report view
func (m *ReportModel) View() string {
	var b strings.Builder

	status := "VALID"
	style := styles.Success
	if !m.report.Valid {
		status = "INVALID"
		style = styles.ErrorMsg
	}
	b.WriteString(styles.Title.Render("Validation Report"))
	b.WriteString("\n")
	b.WriteString(style.Render(status))
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %d sections • %d errors • %d warnings",
		m.report.TotalSections, len(m.report.Errors), len(m.report.Warnings))))
	b.WriteString("\n\n")

	if len(m.lines) == 0 {
		b.WriteString(styles.MutedText.Render("No findings."))
		b.WriteString("\n")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		line := m.lines[i]
		if line.fatal {
			b.WriteString(styles.FlagError.Render("error   "))
		} else {
			b.WriteString(styles.FlagWarning.Render("warning "))
		}
		b.WriteString(line.text)
		b.WriteString("\n")
	}

	if m.pager.TotalPages() > 1 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d",
			m.pager.CurrentPage(), m.pager.TotalPages())))
	}

	b.WriteString("\n\n")
	b.WriteString(RenderHelpLine(ReportKeys.NextPage, ReportKeys.Back, ReportKeys.Quit))

	return styles.App.Render(b.String())
}
