package search

import "github.com/pkg/errors"

// ForgottenFrame is returned when a caller asks for a stack at a frame
// that has already scrolled out of the ring window (spec.md §4.3,
// "Frame window"): its hypotheses have been pruned and detached, and
// the frame can never be revisited.
var ForgottenFrame = errors.New("search: frame has scrolled out of the window")

// FutureFrame is returned when a caller asks for a stack at a frame
// beyond the window's current capacity — the caller must advance the
// window with Go before reaching that far.
var FutureFrame = errors.New("search: frame is beyond the current window")

// ConfigError wraps a rejected Config value (spec.md §9: invalid
// window/limit settings are a fatal configuration error, not a
// per-frame runtime one).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "search: invalid config field " + e.Field + ": " + e.Reason
}
