package state

import (
	"errors"
	"fmt"
	"strings"
)

// ResumeOffer surfaces the newest snapshot to a new session for an
// accept/discard decision. It carries metadata and the remaining work items,
// never the full payload.
type ResumeOffer struct {
	Meta      Meta
	Remaining []string
}

// DetectResumable asks the store for existing snapshots and returns an offer
// built from the newest one, or nil when no prior state exists. Performs no
// mutation beyond the store's own opportunistic pruning.
func DetectResumable(s *Store) (*ResumeOffer, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}

	newest := metas[0]
	snap, err := s.Load(newest.ID)
	if errors.Is(err, ErrNotFound) {
		// Pruned or removed between List and Load; treat as fresh session.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ResumeOffer{
		Meta:      newest,
		Remaining: append([]string(nil), snap.Remaining...),
	}, nil
}

// Render formats the offer as a block the host can present to the end user
// (or inject into the successor session's first request).
func (o *ResumeOffer) Render() string {
	var sb strings.Builder
	sb.WriteString("## Resumable session found\n")
	sb.WriteString(fmt.Sprintf("- Saved: %s (%s)\n", o.Meta.CreatedAt.Format("2006-01-02 15:04:05 UTC"), o.Meta.ID))
	sb.WriteString(fmt.Sprintf("- Summary: %s\n", o.Meta.Summary))
	if len(o.Remaining) > 0 {
		sb.WriteString("- Remaining:\n")
		for _, item := range o.Remaining {
			sb.WriteString(fmt.Sprintf("  - [ ] %s\n", item))
		}
	}
	sb.WriteString("\nAccept to continue from this state, or discard to start fresh.\n")
	return sb.String()
}
