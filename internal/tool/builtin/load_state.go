package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sessionguardian/session-guardian/internal/state"
	"github.com/sessionguardian/session-guardian/internal/tool"
)

// LoadStateTool reads a saved snapshot back, newest first by default.
type LoadStateTool struct {
	store *state.Store
}

// NewLoadStateTool creates the load_state tool.
func NewLoadStateTool(store *state.Store) *LoadStateTool {
	return &LoadStateTool{store: store}
}

func (t *LoadStateTool) Name() string { return "load_state" }
func (t *LoadStateTool) Description() string {
	return "Load a saved session state snapshot. Omit id to load the newest one. Call this at the start of a session to resume prior work."
}

func (t *LoadStateTool) InputSchema() json.RawMessage {
	return tool.BuildSchema(
		tool.SchemaParam{Name: "id", Type: "string",
			Description: "Snapshot id from list_states; omit for the newest snapshot"},
	)
}

type loadStateArgs struct {
	ID string `json:"id"`
}

func (t *LoadStateTool) Execute(_ context.Context, args json.RawMessage) (tool.ToolResult, error) {
	var a loadStateArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return tool.ToolResult{Error: fmt.Sprintf("invalid arguments: %v", err)}, nil
		}
	}

	snap, err := t.store.Load(a.ID)
	if errors.Is(err, state.ErrNotFound) {
		if a.ID != "" {
			return tool.ToolResult{Error: fmt.Sprintf("no snapshot with id %q", a.ID)}, nil
		}
		return tool.ToolResult{Output: "No saved session state found. This appears to be a fresh session."}, nil
	}
	if err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("load_state failed: %v", err)}, nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("encode snapshot: %v", err)}, nil
	}
	return tool.ToolResult{Output: string(data)}, nil
}
