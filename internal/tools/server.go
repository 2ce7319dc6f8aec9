package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/klytics/slidekit/internal/errinfo"
)

// Surfaces tag audit records with where a tool call came from.
const (
	SurfaceMCP = "mcp"
	SurfaceCLI = "cli"
)

const instructions = `slidekit edits PowerPoint (.pptx) decks in place.

Start with manage_presentation (open or create), inspect slides with
get_slide_snapshot, and save with manage_presentation (save or save_as).
find_and_replace and modify_table_cell keep run formatting; modify_shape
text keeps paragraph formatting only. insert_icon can replace a small
placeholder shape, taking its position and size.`

// Definition converts t to an MCP tool schema.
func Definition(t *Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case Number, Integer:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case Boolean:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			if len(p.Enum) > 0 {
				props = append(props, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

// Handler adapts the named tool to an MCP handler. Domain failures become
// error results the agent can read; they never fail the request itself.
func Handler(r *Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := r.Run(ctx, SurfaceMCP, name, Args(req.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError("Error: " + errinfo.Message(err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// NewServer builds an MCP server exposing every tool in r.
func NewServer(r *Registry, name, version string) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, t := range r.Tools() {
		s.AddTool(Definition(t), Handler(r, t.Name))
	}
	return s
}

// ServeStdio runs the server on stdin and stdout until the client goes away.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
