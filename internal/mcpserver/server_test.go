package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sessionguardian/session-guardian/internal/tool"
)

// echoTool reflects its arguments back, or fails per its configuration.
type echoTool struct {
	failResult bool
	failHard   bool
}

func (e *echoTool) Name() string                 { return "echo" }
func (e *echoTool) Description() string          { return "echoes arguments" }
func (e *echoTool) InputSchema() json.RawMessage { return tool.BuildSchema() }
func (e *echoTool) Execute(_ context.Context, args json.RawMessage) (tool.ToolResult, error) {
	if e.failHard {
		return tool.ToolResult{}, errors.New("transport broke")
	}
	if e.failResult {
		return tool.ToolResult{Error: "bad input"}, nil
	}
	return tool.ToolResult{Output: string(args)}, nil
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = "echo"
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content length = %d, want 1", len(res.Content))
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is not text: %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_PassesArgumentsAndOutput(t *testing.T) {
	h := handler(&echoTool{})

	res, err := h(context.Background(), callReq(map[string]any{"summary": "done"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %v", res)
	}
	if got := textContent(t, res); got != `{"summary":"done"}` {
		t.Errorf("arguments did not round-trip: %q", got)
	}
}

func TestHandler_ToolErrorBecomesErrorResult(t *testing.T) {
	h := handler(&echoTool{failResult: true})

	res, err := h(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("tool-level failure must not be a Go error: %v", err)
	}
	if !res.IsError {
		t.Error("expected IsError result")
	}
	if got := textContent(t, res); got != "bad input" {
		t.Errorf("error text = %q", got)
	}
}

func TestHandler_TransportErrorPropagates(t *testing.T) {
	h := handler(&echoTool{failHard: true})

	if _, err := h(context.Background(), callReq(nil)); err == nil {
		t.Error("expected transport-level error to propagate")
	}
}

func TestNew_RegistersAllTools(t *testing.T) {
	reg := tool.NewRegistry()
	reg.Register(&echoTool{})

	srv := New("session-guardian", "0.1.0", reg)
	if srv == nil {
		t.Fatal("New returned nil server")
	}
}
