package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/application/commands"
)

var (
	validateGraph  string
	validateReport string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-validate a previously compiled graph",
	Long: `Re-run integrity validation over an existing graph.json without
recompiling, and optionally rewrite the report.

Examples:
  bookgraph-cli validate
  bookgraph-cli validate --graph out/graph.json --report out/report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		graphPath := validateGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}

		validate := commands.NewValidateCommand(graphPath, GetBook().Range())
		validate.ReportPath = validateReport

		result, err := validate.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, e := range result.Report.Errors {
			fmt.Printf("error: %s\n", e)
		}
		for _, w := range result.Report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateGraph, "graph", "", "path to the compiled graph (default <workspace>/graph.json)")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "rewrite the validation report to this path")
}
