package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/adapters/claudecli"
	"bookgraph/internal/application/commands"
)

var (
	retranscribeGraph  string
	retranscribeReport string
	retranscribeModel  string
)

var retranscribeCmd = &cobra.Command{
	Use:   "retranscribe",
	Short: "Ask the AI assistant to re-read damaged sections",
	Long: `Collect the sections the validation report flagged as damaged
(no text, or a dead end that does not end the game) and ask the Claude
CLI for corrected transcriptions. Proposals are printed for review; the
source JSONL is never modified.

Examples:
  bookgraph-cli retranscribe
  bookgraph-cli retranscribe --model sonnet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		graphPath := retranscribeGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}
		reportPath := retranscribeReport
		if reportPath == "" {
			reportPath = workspaceFile("report.json")
		}

		graph, err := commands.LoadGraph(graphPath)
		if err != nil {
			return err
		}
		report, err := commands.LoadReport(reportPath)
		if err != nil {
			return err
		}

		assistant := claudecli.NewAssistant(claudecli.WithModel(retranscribeModel))
		result, err := commands.NewRetranscribeCommand(assistant, graph, report).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, p := range result.Proposals {
			fmt.Printf("\nSection %s (%s):\n%s\n", p.SectionID, p.Reasoning, p.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retranscribeCmd)
	retranscribeCmd.Flags().StringVar(&retranscribeGraph, "graph", "", "path to the compiled graph (default <workspace>/graph.json)")
	retranscribeCmd.Flags().StringVar(&retranscribeReport, "report", "", "path to the validation report (default <workspace>/report.json)")
	retranscribeCmd.Flags().StringVar(&retranscribeModel, "model", "haiku", "Claude model to use")
}
