package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion identifies the on-disk snapshot format.
const SchemaVersion = 1

// Snapshot is one immutable, timestamped record of session progress.
// Snapshots are never overwritten, only superseded by a newer id.
type Snapshot struct {
	Version      int             `json:"version"`
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Summary      string          `json:"summary"`
	Accomplished []string        `json:"accomplished"`
	Remaining    []string        `json:"remaining"`
	Decisions    []string        `json:"decisions,omitempty"`
	SessionID    string          `json:"session_id,omitempty"`
	Freeform     json.RawMessage `json:"freeform,omitempty"`
}

// Meta returns the listing view of the snapshot (no payload).
func (s Snapshot) Meta() Meta {
	return Meta{ID: s.ID, CreatedAt: s.CreatedAt, Summary: s.Summary}
}

// Input is the caller-supplied portion of a snapshot. The store assigns
// Version, ID, and CreatedAt.
type Input struct {
	Summary      string
	Accomplished []string
	Remaining    []string
	Decisions    []string
	SessionID    string
	Freeform     json.RawMessage
}

// Validate rejects inputs missing the required progress fields.
func (in Input) Validate() error {
	var missing []string
	if in.Summary == "" {
		missing = append(missing, "summary")
	}
	if len(in.Accomplished) == 0 {
		missing = append(missing, "accomplished")
	}
	if len(in.Remaining) == 0 {
		missing = append(missing, "remaining")
	}
	if len(missing) > 0 {
		return fmt.Errorf("state: save requires: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Meta is the metadata view returned by List: id, creation time, and summary
// only, never the full payload.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}
