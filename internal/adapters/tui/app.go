package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui/views"
	"bookgraph/internal/domain"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewDetail
	ViewReport
	ViewHelp
)

// App is the main TUI application model. It browses a compiled graph and
// its validation report; recompilation happens outside the TUI.
type App struct {
	flags map[string][]string

	state   ViewState
	browser *views.BrowserModel
	detail  *views.DetailModel
	reportV *views.ReportModel
	help    *views.HelpModel

	// trail of section ids walked into from the browser
	trail []string

	width  int
	height int
}

// NewApp creates a new TUI application over a compiled graph.
func NewApp(g *domain.Graph, rep *domain.ValidationReport) *App {
	return &App{
		flags:   views.FlagIndex(g, rep),
		state:   ViewBrowser,
		browser: views.NewBrowserModel(g, rep),
		detail:  views.NewDetailModel(g),
		reportV: views.NewReportModel(rep),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.detail.SetSize(msg.Width, msg.Height)
		a.reportV.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToDetailMsg:
		a.state = ViewDetail
		a.trail = append(a.trail, msg.ID)
		a.detail.Show(msg.ID, a.flags[msg.ID])
		return a, nil

	case views.DetailClosedMsg:
		if len(a.trail) > 0 {
			a.trail = a.trail[:len(a.trail)-1]
		}
		if len(a.trail) > 0 {
			id := a.trail[len(a.trail)-1]
			a.detail.Show(id, a.flags[id])
			return a, nil
		}
		a.state = ViewBrowser
		return a, nil

	case views.SwitchToReportMsg:
		a.state = ViewReport
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.trail = nil
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewReport:
		_, cmd = a.reportV.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDetail:
		return a.detail.View()
	case ViewReport:
		return a.reportV.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
