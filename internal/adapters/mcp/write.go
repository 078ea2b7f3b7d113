package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bookgraph/internal/adapters/extraction"
	"bookgraph/internal/adapters/sqlite"
	"bookgraph/internal/application/commands"
	"bookgraph/internal/domain"
)

// CompileConfig carries the workspace paths and book profile the compile
// tools operate on.
type CompileConfig struct {
	SectionsPath string
	GraphPath    string
	ReportPath   string
	IndexPath    string

	Range           domain.Range
	StartID         string
	AllowStubs      bool
	VerifiedMissing []string
}

// RegisterCompileTools adds the tools that rebuild compiled artifacts.
// The provider's cache is dropped after a successful recompile so the read
// tools serve fresh data.
func RegisterCompileTools(s *server.MCPServer, cfg CompileConfig, provider *FileProvider) {
	s.AddTool(compileTool(), compileHandler(cfg, provider))
	s.AddTool(reindexTool(), reindexHandler(cfg))
}

// --- compile ---

func compileTool() mcp.Tool {
	return mcp.NewTool("compile",
		mcp.WithDescription("Recompile the book from its extracted sections, rewriting graph.json and report.json."),
	)
}

func compileHandler(cfg CompileConfig, provider *FileProvider) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCompileCommand(extraction.NewSource(cfg.SectionsPath), cfg.Range)
		cmd.StartID = cfg.StartID
		cmd.AllowStubs = cfg.AllowStubs
		cmd.VerifiedMissing = cfg.VerifiedMissing
		cmd.GraphPath = cfg.GraphPath
		cmd.ReportPath = cfg.ReportPath

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if provider != nil {
			provider.Invalidate()
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- reindex ---

func reindexTool() mcp.Tool {
	return mcp.NewTool("reindex",
		mcp.WithDescription("Rebuild the SQLite link index from the compiled graph."),
	)
}

func reindexHandler(cfg CompileConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if cfg.IndexPath == "" {
			return toolError(fmt.Errorf("no index path configured"))
		}

		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.IndexPath); err != nil {
			return toolError(err)
		}
		defer idx.Close()

		cmd := commands.NewIndexCommand(idx, cfg.GraphPath)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
