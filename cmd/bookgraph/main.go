package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"bookgraph/internal/adapters/tui"
	"bookgraph/internal/application/commands"
	"bookgraph/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "path to the workspace")
	flag.Parse()

	workspace := config.ExpandHome(*workspaceFlag)

	graph, err := commands.LoadGraph(filepath.Join(workspace, "graph.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun bookgraph-cli compile first.\n", err)
		os.Exit(1)
	}
	report, err := commands.LoadReport(filepath.Join(workspace, "report.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun bookgraph-cli compile first.\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(graph, report)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
