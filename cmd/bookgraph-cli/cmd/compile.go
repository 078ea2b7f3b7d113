package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookgraph/internal/adapters/extraction"
	"bookgraph/internal/application/commands"
)

var (
	compileSections   string
	compileGraph      string
	compileReport     string
	compileStart      string
	compileAllowStubs bool
	compileWorkers    int
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile extracted sections into a story graph",
	Long: `Compile a JSONL file of OCR-extracted sections into a validated
story graph, writing graph.json and report.json.

The book profile supplies the expected section range, the start section,
and the list of sections verified missing from the printed book.

Examples:
  bookgraph-cli compile
  bookgraph-cli compile --book warlock.yaml --allow-stubs
  bookgraph-cli compile --sections out/sections.jsonl --graph out/graph.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		b := GetBook()

		sections := compileSections
		if sections == "" {
			sections = workspaceFile("sections.jsonl")
		}
		graphPath := compileGraph
		if graphPath == "" {
			graphPath = workspaceFile("graph.json")
		}
		reportPath := compileReport
		if reportPath == "" {
			reportPath = workspaceFile("report.json")
		}

		compile := commands.NewCompileCommand(extraction.NewSource(sections), b.Range())
		compile.StartID = b.StartSection
		compile.AllowStubs = b.AllowStubs || compileAllowStubs
		compile.VerifiedMissing = b.VerifiedMissing
		compile.OrphanMinInbound = b.OrphanMinInbound
		compile.Workers = compileWorkers
		compile.GraphPath = graphPath
		compile.ReportPath = reportPath
		if compileStart != "" {
			compile.StartID = compileStart
		}

		result, err := compile.Execute(ctx)
		if err != nil {
			return err
		}

		for _, sd := range result.Discards {
			for _, d := range sd.Discards {
				GetLogger().Debugw("discarded signal",
					"section", sd.SectionID,
					"reason", d.Reason,
				)
			}
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
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compileSections, "sections", "", "path to the extracted sections JSONL (default <workspace>/sections.jsonl)")
	compileCmd.Flags().StringVar(&compileGraph, "graph", "", "output path for the compiled graph (default <workspace>/graph.json)")
	compileCmd.Flags().StringVar(&compileReport, "report", "", "output path for the validation report (default <workspace>/report.json)")
	compileCmd.Flags().StringVar(&compileStart, "start", "", "override the start section id")
	compileCmd.Flags().BoolVar(&compileAllowStubs, "allow-stubs", false, "backfill placeholder nodes for missing targets")
	compileCmd.Flags().IntVar(&compileWorkers, "workers", 0, "number of compile workers (0 uses all CPUs)")
}
