package expander

// Config holds the Expander's per-segment tuning knobs (spec.md §4.1).
type Config struct {
	// TokenLimit is the global maximum live tokens kept after each
	// frame.
	TokenLimit int
	// Beam is the per-frame acoustic beam: tokens with
	// log_prob < beam_best - Beam are pruned.
	Beam float64
	// ForcedEnd, if true, emits a word candidate only when a token
	// transitions out of a terminal lexicon state (reaching its HMM
	// final state); otherwise any frame spent resident in a terminal
	// state emits a candidate.
	ForcedEnd bool
	// MaxStateDuration caps frames-in-current-state; tokens exceeding
	// it are killed.
	MaxStateDuration int
	// DurationScale and TransitionScale linearly weight state-duration
	// and transition log-probs.
	DurationScale   float64
	TransitionScale float64
}

// DefaultConfig returns reasonable default Expander parameters,
// mirroring the teacher's decoder.DefaultConfig in spirit (beam width
// and token cap of the same order of magnitude).
func DefaultConfig() Config {
	return Config{
		TokenLimit:       1000,
		Beam:             200.0,
		ForcedEnd:        false,
		MaxStateDuration: 100,
		DurationScale:    1.0,
		TransitionScale:  1.0,
	}
}
