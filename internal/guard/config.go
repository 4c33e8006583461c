package guard

import (
	"errors"
	"fmt"
)

// ErrConfig marks invalid guardian configuration. Construction-time only;
// a session must not start with a config that fails validation.
var ErrConfig = errors.New("guard: invalid config")

// Config holds the context-window budget for one session.
// Immutable after construction.
type Config struct {
	ContextWindow int     // model's context window size in tokens
	SoftThreshold float64 // usage ratio at which to start advising saves
	HardThreshold float64 // usage ratio at which handoff becomes mandatory
}

// NewConfig validates and builds a guardian config.
// Both thresholds must lie in (0,1) with hard strictly above soft.
func NewConfig(contextWindow int, soft, hard float64) (Config, error) {
	if contextWindow <= 0 {
		return Config{}, fmt.Errorf("%w: context window must be positive, got %d", ErrConfig, contextWindow)
	}
	if soft <= 0 || soft >= 1 {
		return Config{}, fmt.Errorf("%w: soft threshold must be in (0,1), got %v", ErrConfig, soft)
	}
	if hard <= 0 || hard >= 1 {
		return Config{}, fmt.Errorf("%w: hard threshold must be in (0,1), got %v", ErrConfig, hard)
	}
	if hard <= soft {
		return Config{}, fmt.Errorf("%w: hard threshold %v must exceed soft threshold %v", ErrConfig, hard, soft)
	}
	return Config{ContextWindow: contextWindow, SoftThreshold: soft, HardThreshold: hard}, nil
}
