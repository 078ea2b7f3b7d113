package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookgraph/internal/application"
	"bookgraph/internal/application/commands"
)

var pathGraph string

var pathCmd = &cobra.Command{
	Use:   "path <section-id>",
	Short: "Find a shortest path from the start section",
	Long: `Find one shortest path from the start section to the given
section, following choice and outcome edges.

Examples:
  bookgraph-cli path 400
  bookgraph-cli path 157 --graph out/graph.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sectionID := args[0]

		graphPath := pathGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}

		graph, err := commands.LoadGraph(graphPath)
		if err != nil {
			return err
		}
		if _, ok := graph.Nodes[sectionID]; !ok {
			return fmt.Errorf("no section %s in graph", sectionID)
		}

		path := application.PathFromStart(graph, sectionID)
		if path == nil {
			fmt.Printf("Section %s is unreachable from %s\n", sectionID, graph.StartID)
			return nil
		}

		fmt.Printf("%s (%d steps)\n", strings.Join(path, " -> "), len(path)-1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().StringVar(&pathGraph, "graph", "", "path to the compiled graph (default <workspace>/graph.json)")
}
