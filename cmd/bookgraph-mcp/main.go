package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "bookgraph/internal/adapters/mcp"
	"bookgraph/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "path to the workspace")
	bookFlag := flag.String("book", "", "path to a book profile (YAML)")
	flag.Parse()

	workspace := config.ExpandHome(*workspaceFlag)

	book := &config.Book{}
	if *bookFlag != "" {
		b, err := config.LoadBook(*bookFlag)
		if err != nil {
			log.Fatalf("bookgraph-mcp: %v", err)
		}
		book = b
	}

	graphPath := filepath.Join(workspace, "graph.json")
	reportPath := filepath.Join(workspace, "report.json")

	provider := mcpadapter.NewFileProvider(graphPath, reportPath)

	mcpServer := server.NewMCPServer(
		"bookgraph-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, provider)
	mcpadapter.RegisterCompileTools(mcpServer, mcpadapter.CompileConfig{
		SectionsPath:    filepath.Join(workspace, "sections.jsonl"),
		GraphPath:       graphPath,
		ReportPath:      reportPath,
		IndexPath:       filepath.Join(workspace, "index.db"),
		Range:           book.Range(),
		StartID:         book.StartSection,
		AllowStubs:      book.AllowStubs,
		VerifiedMissing: book.VerifiedMissing,
	}, provider)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("bookgraph-mcp: %v", err)
	}
}
