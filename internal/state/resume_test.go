package state

import (
	"strings"
	"testing"
	"time"
)

func TestDetectResumable_FreshSession(t *testing.T) {
	s, _ := newTestStore(t, 0)

	offer, err := DetectResumable(s)
	if err != nil {
		t.Fatalf("DetectResumable: %v", err)
	}
	if offer != nil {
		t.Errorf("expected nil offer for empty store, got %+v", offer)
	}
}

func TestDetectResumable_OffersNewestSnapshot(t *testing.T) {
	s, now := newTestStore(t, 0)

	s.Save(testInput("older work"))
	*now = now.Add(time.Hour)
	s.Save(Input{
		Summary:      "migrating the billing tables",
		Accomplished: []string{"schema drafted"},
		Remaining:    []string{"backfill data", "switch reads"},
	})

	offer, err := DetectResumable(s)
	if err != nil {
		t.Fatalf("DetectResumable: %v", err)
	}
	if offer == nil {
		t.Fatal("expected an offer after saving state")
	}
	if offer.Meta.Summary != "migrating the billing tables" {
		t.Errorf("offer summary = %q, want the newest snapshot's", offer.Meta.Summary)
	}
	if len(offer.Remaining) != 2 || offer.Remaining[0] != "backfill data" {
		t.Errorf("offer remaining = %v", offer.Remaining)
	}
}

func TestResumeOffer_Render(t *testing.T) {
	s, _ := newTestStore(t, 0)
	s.Save(testInput("fixing flaky tests"))

	offer, err := DetectResumable(s)
	if err != nil || offer == nil {
		t.Fatalf("DetectResumable: offer=%v err=%v", offer, err)
	}

	out := offer.Render()
	for _, want := range []string{"Resumable session found", "fixing flaky tests", "wire CLI flags", "Accept"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render missing %q in:\n%s", want, out)
		}
	}
}
