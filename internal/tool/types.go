package tool

import (
	"context"
	"encoding/json"
)

// Tool is the interface every guardian operation implements. The same
// definition backs both direct in-process calls and the MCP server bridge.
type Tool interface {
	// Name returns the operation identifier the calling agent uses.
	Name() string

	// Description returns a natural-language description for the caller.
	Description() string

	// InputSchema returns a JSON Schema object for the tool's parameters.
	InputSchema() json.RawMessage

	// Execute runs the tool with JSON-encoded arguments. Caller-visible
	// failures go into ToolResult.Error; the error return is reserved for
	// transport-level problems.
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)
}

// ToolResult encapsulates a tool execution result.
type ToolResult struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// SchemaParam describes a single parameter for the BuildSchema helper.
type SchemaParam struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean", "array", "object"
	Description string
	Required    bool
	Items       string   // element type when Type == "array"
	Enum        []string // allowed values, optional
}

// BuildSchema generates a JSON Schema object from parameter descriptions,
// so tools avoid hand-writing schema strings.
func BuildSchema(params ...SchemaParam) json.RawMessage {
	properties := make(map[string]any)
	var required []string

	for _, p := range params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			prop["items"] = map[string]any{"type": items}
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	data, _ := json.Marshal(schema)
	return data
}
