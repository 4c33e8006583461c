package builtin

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sessionguardian/session-guardian/internal/state"
)

func saveFixture(t *testing.T, store *state.Store, summary string) state.Snapshot {
	t.Helper()
	snap, err := store.Save(state.Input{
		Summary:      summary,
		Accomplished: []string{"step one"},
		Remaining:    []string{"step two"},
	})
	if err != nil {
		t.Fatalf("Save fixture: %v", err)
	}
	return snap
}

func TestLoadState_FreshSession(t *testing.T) {
	lt := NewLoadStateTool(newTestStore(t))

	result, err := lt.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("fresh session should not be an error: %s", result.Error)
	}
	if !strings.Contains(result.Output, "fresh session") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestLoadState_NewestByDefault(t *testing.T) {
	store := newTestStore(t)
	saveFixture(t, store, "first")
	want := saveFixture(t, store, "second")
	lt := NewLoadStateTool(store)

	result, err := lt.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}

	var snap state.Snapshot
	if err := json.Unmarshal([]byte(result.Output), &snap); err != nil {
		t.Fatalf("output is not a JSON snapshot: %v", err)
	}
	if snap.ID != want.ID || snap.Summary != "second" {
		t.Errorf("loaded %s %q, want newest %s", snap.ID, snap.Summary, want.ID)
	}
}

func TestLoadState_ByID(t *testing.T) {
	store := newTestStore(t)
	first := saveFixture(t, store, "first")
	saveFixture(t, store, "second")
	lt := NewLoadStateTool(store)

	args, _ := json.Marshal(map[string]string{"id": first.ID})
	result, err := lt.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Output, `"first"`) {
		t.Errorf("output = %q, want the snapshot %q", result.Output, first.ID)
	}
}

func TestLoadState_RejectsPathTraversalID(t *testing.T) {
	store := newTestStore(t)
	saveFixture(t, store, "present")
	lt := NewLoadStateTool(store)

	for _, id := range []string{"../outside", `..\outside`, "/etc/passwd"} {
		args, _ := json.Marshal(map[string]string{"id": id})
		result, err := lt.Execute(context.Background(), args)
		if err != nil {
			t.Fatalf("Execute(%q): %v", id, err)
		}
		if result.Error == "" {
			t.Errorf("id %q escaped the state directory: %q", id, result.Output)
		}
	}
}

func TestLoadState_UnknownID(t *testing.T) {
	store := newTestStore(t)
	saveFixture(t, store, "present")
	lt := NewLoadStateTool(store)

	result, err := lt.Execute(context.Background(), json.RawMessage(`{"id":"2020-01-01T00-00-00"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Error == "" {
		t.Error("expected error for unknown explicit id")
	}
}
