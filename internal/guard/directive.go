package guard

import "fmt"

// Directive names the newly entered band plus the usage percentage.
// The tracker emits exactly one per band transition.
type Directive struct {
	Band         Band
	RatioPercent int
}

// Advisory renders the string the host injects into the next outbound
// request's context. Normal yields "": nothing is injected below the soft
// threshold.
func (d Directive) Advisory() string {
	switch d.Band {
	case BandSoft:
		return fmt.Sprintf("[Guardian: %d%% context — save progress, then continue concisely]", d.RatioPercent)
	case BandHard:
		return fmt.Sprintf("[Guardian: %d%% context — HANDOFF REQUIRED. Save state now and do not start new tasks]", d.RatioPercent)
	default:
		return ""
	}
}

// UserMessage renders the operator-facing notification line, or "" for Normal.
func (d Directive) UserMessage() string {
	switch d.Band {
	case BandSoft:
		return fmt.Sprintf("Guardian: %d%% context used — saving progress recommended", d.RatioPercent)
	case BandHard:
		return fmt.Sprintf("Guardian: %d%% context used — handoff required!", d.RatioPercent)
	default:
		return ""
	}
}

// Level returns the notification severity: "warning" for Soft, "error" for
// Hard, "" for Normal.
func (d Directive) Level() string {
	switch d.Band {
	case BandSoft:
		return "warning"
	case BandHard:
		return "error"
	default:
		return ""
	}
}
