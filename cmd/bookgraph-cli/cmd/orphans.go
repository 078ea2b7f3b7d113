package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/application"
	"bookgraph/internal/application/commands"
)

var (
	orphansGraph      string
	orphansMinInbound int
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Hunt for orphaned sections with look-alike ids",
	Long: `Find sections no other section references, and suggest the
heavily-referenced id each orphan's inbound links were probably
misread into.

Examples:
  bookgraph-cli orphans
  bookgraph-cli orphans --min-inbound 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		graphPath := orphansGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}

		orphans := commands.NewOrphansCommand(graphPath, GetBook().Range())
		orphans.MinInbound = orphansMinInbound

		result, err := orphans.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, s := range result.Suspects {
			fmt.Printf("  %s: %d references to %s may belong here\n",
				s.OrphanID, s.InboundCount, s.SuspectTarget)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orphansCmd)
	orphansCmd.Flags().StringVar(&orphansGraph, "graph", "", "path to the compiled graph (default <workspace>/graph.json)")
	orphansCmd.Flags().IntVar(&orphansMinInbound, "min-inbound", application.DefaultOrphanInbound, "minimum inbound references a suspect target must have")
}
