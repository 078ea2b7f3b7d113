package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/adapters/sqlite"
	"bookgraph/internal/application/commands"
)

var (
	indexGraph string
	indexPath  string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite link index from the compiled graph",
	Long: `Rebuild the link index used for fast inbound/outbound reference
queries.

Examples:
  bookgraph-cli index
  bookgraph-cli index --graph out/graph.json --db out/index.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		graphPath := indexGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}
		dbPath := indexPath
		if dbPath == "" {
			dbPath = workspaceFile("index.db")
		}

		idx := sqlite.NewIndex()
		if err := idx.Open(dbPath); err != nil {
			return err
		}
		defer idx.Close()

		result, err := commands.NewIndexCommand(idx, graphPath).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexGraph, "graph", "", "path to the compiled graph (default <workspace>/graph.json)")
	indexCmd.Flags().StringVar(&indexPath, "db", "", "path to the link index database (default <workspace>/index.db)")
}
