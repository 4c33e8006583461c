// Package mcpserver exposes the guardian's tool registry over the Model
// Context Protocol, so any MCP-capable host can drive the save/load/list
// operations and the usage reporting surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sessionguardian/session-guardian/internal/tool"
)

// New builds an MCP server announcing every registered tool.
func New(name, version string, reg *tool.Registry) *server.MCPServer {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	for _, t := range reg.List() {
		srv.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.InputSchema()), handler(t))
	}
	return srv
}

// handler adapts one registry tool to the MCP call contract. Tool-level
// failures become error results; only transport-level problems propagate as
// Go errors.
func handler(t tool.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode arguments: %v", err)), nil
		}

		result, err := t.Execute(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name(), err)
		}
		if result.Error != "" {
			return mcp.NewToolResultError(result.Error), nil
		}
		return mcp.NewToolResultText(result.Output), nil
	}
}

// ServeStdio blocks serving the MCP protocol over stdin/stdout until the
// client disconnects. Log output must stay on stderr while serving.
func ServeStdio(srv *server.MCPServer) error {
	log.Printf("[MCP] serving over stdio")
	return server.ServeStdio(srv)
}
