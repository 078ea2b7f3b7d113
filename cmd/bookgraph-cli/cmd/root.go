package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookgraph/internal/config"
	"bookgraph/internal/logging"
)

var (
	workspacePath string
	bookPath      string

	book   *config.Book
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "bookgraph-cli",
	Short: "CLI for compiling and validating gamebook graphs",
	Long: `bookgraph-cli compiles OCR-extracted gamebook sections into a
navigable story graph and validates its integrity.

It provides commands to compile sections, re-validate a compiled graph,
query the link index, hunt for orphaned sections, and request fresh
transcriptions for damaged ones.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		l, err := logging.New("bookgraph-cli")
		if err != nil {
			return err
		}
		logger = l

		if bookPath != "" {
			b, err := config.LoadBook(bookPath)
			if err != nil {
				return err
			}
			book = b
		} else {
			book = &config.Book{}
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace", "w", config.WorkspacePath(), "path to the workspace")
	rootCmd.PersistentFlags().StringVarP(&bookPath, "book", "b", "", "path to a book profile (YAML)")
}

// GetBook returns the loaded book profile
func GetBook() *config.Book {
	return book
}

// GetLogger returns the initialized logger
func GetLogger() *zap.SugaredLogger {
	return logger
}

// workspaceFile resolves a file name inside the workspace.
func workspaceFile(name string) string {
	return filepath.Join(config.ExpandHome(workspacePath), name)
}
