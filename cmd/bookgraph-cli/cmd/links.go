package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/adapters/sqlite"
	"bookgraph/internal/application/commands"
)

var linksDB string

var linksCmd = &cobra.Command{
	Use:   "links <section-id>",
	Short: "Show inbound and outbound references for a section",
	Long: `Query the link index for every edge touching a section.

Examples:
  bookgraph-cli links 157
  bookgraph-cli links 1 --db out/index.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sectionID := args[0]

		dbPath := linksDB
		if dbPath == "" {
			dbPath = workspaceFile("index.db")
		}

		idx := sqlite.NewIndex()
		if err := idx.Open(dbPath); err != nil {
			return err
		}
		defer idx.Close()

		result, err := commands.NewLinksCommand(idx, sectionID).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, e := range result.Inbound {
			fmt.Printf("  <- %s (%s)\n", e.SourceID, e.Kind)
		}
		for _, e := range result.Outbound {
			fmt.Printf("  -> %s (%s)\n", e.TargetID, e.Kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.Flags().StringVar(&linksDB, "db", "", "path to the link index database (default <workspace>/index.db)")
}
