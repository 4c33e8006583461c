package guard

import (
	"errors"
	"fmt"
	"math"
)

// ErrSample marks a malformed usage sample. Samples are rejected at the
// boundary; the tracker itself never fails.
var ErrSample = errors.New("guard: invalid usage sample")

// UsageSample is one reading of context occupancy, reported by the host
// after each model response. Each request carries the full context, so the
// latest reading equals current window usage; samples are not cumulative.
type UsageSample struct {
	ConsumedTokens int
	WindowSize     int
}

// Validate rejects negative token counts and non-positive windows.
func (s UsageSample) Validate() error {
	if s.ConsumedTokens < 0 {
		return fmt.Errorf("%w: negative consumed tokens %d", ErrSample, s.ConsumedTokens)
	}
	if s.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrSample, s.WindowSize)
	}
	return nil
}

// Ratio returns consumed/window clamped to [0,1].
func (s UsageSample) Ratio() float64 {
	if s.WindowSize <= 0 {
		return 0
	}
	r := float64(s.ConsumedTokens) / float64(s.WindowSize)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Tracker follows usage samples across a session and signals band
// transitions. It only signals: persistence on a Soft/Hard directive is the
// caller's responsibility.
//
// State is local to the single session goroutine; no locking.
type Tracker struct {
	cfg          Config
	lastBand     Band
	lastRatio    float64
	turnCount    int
	outputTokens int
}

// NewTracker creates a tracker starting in the Normal band.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Observe records one sample and returns a Directive when the band changed,
// nil otherwise. A repeat sample within the same band never re-emits.
// Downward transitions (fresh successor session, compacted context) are
// handled by plain re-classification: no hysteresis, no cooldown.
//
// The sample is assumed valid; reject malformed input with Validate first.
func (t *Tracker) Observe(s UsageSample) *Directive {
	ratio := s.Ratio()
	t.lastRatio = ratio
	t.turnCount++

	newBand := t.cfg.Classify(ratio)
	if newBand == t.lastBand {
		return nil
	}
	t.lastBand = newBand
	return &Directive{
		Band:         newBand,
		RatioPercent: int(math.Round(ratio * 100)),
	}
}

// RecordOutput adds n completion tokens to the session's running output
// total. Unlike input samples, output accumulates across turns; non-positive
// counts are ignored.
func (t *Tracker) RecordOutput(n int) {
	if n > 0 {
		t.outputTokens += n
	}
}

// OutputTokens returns the cumulative completion tokens recorded so far.
func (t *Tracker) OutputTokens() int { return t.outputTokens }

// Band returns the band of the most recent observation.
func (t *Tracker) Band() Band { return t.lastBand }

// Ratio returns the most recently observed usage ratio.
func (t *Tracker) Ratio() float64 { return t.lastRatio }

// Turns returns the number of samples observed so far.
func (t *Tracker) Turns() int { return t.turnCount }

// Config returns the tracker's immutable configuration.
func (t *Tracker) Config() Config { return t.cfg }
