package guard

// Band indicates the context window usage level.
// Ordered: BandNormal < BandSoft < BandHard.
type Band int

const (
	BandNormal Band = iota
	BandSoft        // ≥ soft threshold: save progress, keep working concisely
	BandHard        // ≥ hard threshold: handoff required, no new tasks
)

// String returns the lowercase band name.
func (b Band) String() string {
	switch b {
	case BandSoft:
		return "soft"
	case BandHard:
		return "hard"
	default:
		return "normal"
	}
}

// Classify maps a usage ratio to its band. The ratio is clamped to [0,1]
// first, so callers may pass raw divisions without pre-clamping.
// Boundary values land in the upper band: ratio == SoftThreshold is Soft,
// ratio == HardThreshold is Hard.
func (c Config) Classify(ratio float64) Band {
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	switch {
	case ratio >= c.HardThreshold:
		return BandHard
	case ratio >= c.SoftThreshold:
		return BandSoft
	default:
		return BandNormal
	}
}
