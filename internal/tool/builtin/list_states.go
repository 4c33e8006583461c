package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sessionguardian/session-guardian/internal/state"
	"github.com/sessionguardian/session-guardian/internal/tool"
)

// ListStatesTool enumerates saved snapshots, newest first.
type ListStatesTool struct {
	store *state.Store
}

// NewListStatesTool creates the list_states tool.
func NewListStatesTool(store *state.Store) *ListStatesTool {
	return &ListStatesTool{store: store}
}

func (t *ListStatesTool) Name() string { return "list_states" }
func (t *ListStatesTool) Description() string {
	return "List saved session state snapshots (id, creation time, summary), newest first."
}

func (t *ListStatesTool) InputSchema() json.RawMessage {
	return tool.BuildSchema()
}

func (t *ListStatesTool) Execute(_ context.Context, _ json.RawMessage) (tool.ToolResult, error) {
	metas, err := t.store.List()
	if err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("list_states failed: %v", err)}, nil
	}
	if len(metas) == 0 {
		return tool.ToolResult{Output: "No saved session state found."}, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d snapshot(s):\n", len(metas)))
	for _, m := range metas {
		sb.WriteString(fmt.Sprintf("- %s  %s  %s\n",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04:05 UTC"), m.Summary))
	}
	return tool.ToolResult{Output: sb.String()}, nil
}
