package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bookgraph/internal/application"
	"bookgraph/internal/domain"
)

// RegisterReadTools adds all read-only graph tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, provider GraphProvider) {
	s.AddTool(sectionTool(), sectionHandler(provider))
	s.AddTool(referencesToTool(), referencesToHandler(provider))
	s.AddTool(reportTool(), reportHandler(provider))
	s.AddTool(statsTool(), statsHandler(provider))
	s.AddTool(pathFromStartTool(), pathFromStartHandler(provider))
}

// --- section ---

func sectionTool() mcp.Tool {
	return mcp.NewTool("section",
		mcp.WithDescription("Read a section by id: its text, event sequence, and outgoing targets."),
		mcp.WithString("id",
			mcp.Description("Canonical section id (e.g. 157)"),
			mcp.Required(),
		),
	)
}

func sectionHandler(provider GraphProvider) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		g, err := provider.Graph()
		if err != nil {
			return toolError(err)
		}
		node, ok := g.Nodes[id]
		if !ok {
			return toolError(fmt.Errorf("section %s not found", id))
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Section %s (%s)", node.ID, node.Type)
		if node.Stub() {
			fmt.Fprintf(&sb, " [stub: %s]", node.StubReason)
		}
		if node.EndGame {
			sb.WriteString(" [end game]")
		}
		sb.WriteString("\n\n")
		if node.RawText != "" {
			sb.WriteString(node.RawText)
			sb.WriteString("\n\n")
		}
		for i, ev := range node.Sequence {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, describeEvent(ev))
		}
		if len(node.Nav.Targets) > 0 {
			fmt.Fprintf(&sb, "\nTargets: %s\n", strings.Join(node.Nav.Targets, ", "))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func describeEvent(ev domain.Event) string {
	switch e := ev.(type) {
	case domain.Choice:
		label := e.Label
		if label == "" {
			label = "(unlabelled)"
		}
		return fmt.Sprintf("choice %s %s", label, e.Target)
	case domain.StatChange:
		return fmt.Sprintf("stat %s %+d", e.Stat, e.Amount)
	case domain.StatCheck:
		return fmt.Sprintf("check %s: pass %s, fail %s", e.Stat, e.Pass, e.Fail)
	case domain.ItemOp:
		op := fmt.Sprintf("%s item %q", e.Action, e.Item)
		if e.Optional {
			op += " (optional)"
		}
		return op
	case domain.ItemCheck:
		return fmt.Sprintf("if has %q: %s, else %s", e.Item, e.Has, e.Missing)
	case domain.StateCheck:
		return fmt.Sprintf("if %q: %s, else %s", e.Condition, e.Has, e.Missing)
	case domain.TestLuck:
		return fmt.Sprintf("test luck: lucky %s, unlucky %s", e.Lucky, e.Unlucky)
	case domain.Combat:
		var names []string
		for _, en := range e.Enemies {
			names = append(names, en.Name)
		}
		return fmt.Sprintf("combat %s: win %s, lose %s", strings.Join(names, "+"), e.Win, e.Lose)
	case domain.Death:
		return fmt.Sprintf("death: %s", e.Description)
	case domain.Conditional:
		return fmt.Sprintf("conditional %q (%d events)", e.Condition, len(e.Then))
	default:
		return string(ev.Kind())
	}
}

// --- references_to ---

func referencesToTool() mcp.Tool {
	return mcp.NewTool("references_to",
		mcp.WithDescription("List every section that links to the given section id."),
		mcp.WithString("id",
			mcp.Description("Target section id"),
			mcp.Required(),
		),
	)
}

func referencesToHandler(provider GraphProvider) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		g, err := provider.Graph()
		if err != nil {
			return toolError(err)
		}

		var sources []string
		for _, e := range g.Edges() {
			if e[1] == id {
				sources = append(sources, e[0])
			}
		}
		if len(sources) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("Nothing references section %s.", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Referenced by %d sections: %s",
			len(sources), strings.Join(sources, ", "))), nil
	}
}

// --- report ---

func reportTool() mcp.Tool {
	return mcp.NewTool("report",
		mcp.WithDescription("Show the graph validation report: errors, warnings, and orphan suspects."),
	)
}

func reportHandler(provider GraphProvider) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rep, err := provider.Report()
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		status := "VALID"
		if !rep.Valid {
			status = "INVALID"
		}
		fmt.Fprintf(&sb, "%s: %d sections\n", status, rep.TotalSections)
		for _, e := range rep.Errors {
			fmt.Fprintf(&sb, "error: %s\n", e)
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(&sb, "warning: %s\n", w)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Summarize the compiled graph: node counts, edge count, stubs, start section."),
	)
}

func statsHandler(provider GraphProvider) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := provider.Graph()
		if err != nil {
			return toolError(err)
		}

		gameplay, endings := 0, 0
		for _, node := range g.Nodes {
			if node.Gameplay {
				gameplay++
			}
			if node.EndGame {
				endings++
			}
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Sections: %d (%d gameplay, %d endings)\n", len(g.Nodes), gameplay, endings)
		fmt.Fprintf(&sb, "Edges: %d\n", len(g.Edges()))
		fmt.Fprintf(&sb, "Stubs: %d\n", len(g.StubIDs))
		fmt.Fprintf(&sb, "Start: %s\n", g.StartID)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- path_from_start ---

func pathFromStartTool() mcp.Tool {
	return mcp.NewTool("path_from_start",
		mcp.WithDescription("Find one shortest path from the start section to the given section id."),
		mcp.WithString("id",
			mcp.Description("Destination section id"),
			mcp.Required(),
		),
	)
}

func pathFromStartHandler(provider GraphProvider) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		g, err := provider.Graph()
		if err != nil {
			return toolError(err)
		}
		if _, ok := g.Nodes[id]; !ok {
			return toolError(fmt.Errorf("section %s not found", id))
		}

		path := application.PathFromStart(g, id)
		if path == nil {
			return mcp.NewToolResultText(fmt.Sprintf("Section %s is unreachable from %s.", id, g.StartID)), nil
		}
		return mcp.NewToolResultText(strings.Join(path, " -> ")), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
