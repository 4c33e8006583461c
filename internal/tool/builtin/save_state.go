package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sessionguardian/session-guardian/internal/state"
	"github.com/sessionguardian/session-guardian/internal/tool"
)

// SaveStateTool persists a point-in-time snapshot of session progress so a
// successor session can pick the task up cleanly.
type SaveStateTool struct {
	store     *state.Store
	sessionID string
}

// NewSaveStateTool creates the save_state tool. sessionID is stamped into
// every snapshot this process writes.
func NewSaveStateTool(store *state.Store, sessionID string) *SaveStateTool {
	return &SaveStateTool{store: store, sessionID: sessionID}
}

func (t *SaveStateTool) Name() string { return "save_state" }
func (t *SaveStateTool) Description() string {
	return "Save session state for clean handoff: summary of progress, accomplished items, remaining items, and an optional freeform payload. Call this when the guardian advises saving."
}

func (t *SaveStateTool) InputSchema() json.RawMessage {
	return tool.BuildSchema(
		tool.SchemaParam{Name: "summary", Type: "string", Required: true,
			Description: "Brief summary of what was accomplished this session"},
		tool.SchemaParam{Name: "accomplished", Type: "array", Required: true,
			Description: "Completed items, in order"},
		tool.SchemaParam{Name: "remaining", Type: "array", Required: true,
			Description: "Items still to do, in order"},
		tool.SchemaParam{Name: "decisions", Type: "array",
			Description: "Key decisions made this session (optional)"},
		tool.SchemaParam{Name: "freeform", Type: "object",
			Description: "Opaque JSON payload carried verbatim into the snapshot (optional)"},
	)
}

type saveStateArgs struct {
	Summary      string          `json:"summary"`
	Accomplished []string        `json:"accomplished"`
	Remaining    []string        `json:"remaining"`
	Decisions    []string        `json:"decisions"`
	Freeform     json.RawMessage `json:"freeform"`
}

func (t *SaveStateTool) Execute(_ context.Context, args json.RawMessage) (tool.ToolResult, error) {
	var a saveStateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("invalid arguments: %v", err)}, nil
	}

	snap, err := t.store.Save(state.Input{
		Summary:      a.Summary,
		Accomplished: a.Accomplished,
		Remaining:    a.Remaining,
		Decisions:    a.Decisions,
		SessionID:    t.sessionID,
		Freeform:     a.Freeform,
	})
	if err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("save_state failed: %v", err)}, nil
	}

	log.Printf("[State] saved snapshot %s", snap.ID)
	return tool.ToolResult{Output: fmt.Sprintf("State saved as %s", snap.ID)}, nil
}
