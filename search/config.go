package search

// Config holds Search's per-run tuning knobs (spec.md §4.3, §9),
// distinct from expander.Config's per-frame token-pass knobs: these
// govern the word-level stack search built on top of Expander's word
// candidates.
type Config struct {
	// HypoLimit caps the number of hypotheses kept per HypoStack after
	// pruning (the "stack pruning" of spec.md §4.3).
	HypoLimit int
	// WordLimit caps how many of Expander's ranked word candidates are
	// actually expanded into new hypotheses per source hypothesis.
	WordLimit int
	// WordBeam drops word candidates whose acoustic average score
	// (expander.Candidate.AvgLogProb) falls below the best candidate's
	// average minus WordBeam, applied before LM combination (spec.md
	// §4.3/§9's resolution of the word_beam ambiguity).
	WordBeam float64
	// GlobalBeam drops a newly formed hypothesis if its score is below
	// the best score anywhere in the window minus GlobalBeam. The best
	// is recomputed whenever the window advances, so scores of frames
	// that scrolled out no longer count.
	GlobalBeam float64
	// LMScale and LMOffset linearly rescale the language model's
	// contribution: lm_scale * lm_log_prob + lm_offset.
	LMScale  float64
	LMOffset float64
	// UnkOffset is added whenever the LM falls back to an
	// out-of-vocabulary estimate (spec.md §3, "Unknown word handling").
	UnkOffset float64
	// PruneSimilar is N, the LM-relevant word-history length the
	// prune_similar collapse compares on; 0 disables it (spec.md §4.3,
	// §9: "N for the similarity-prune operator; 0 disables").
	PruneSimilar int
	// ExpandWindow is the ring buffer's capacity in frames.
	ExpandWindow int
	// EndFrame, when >= 0, is the last frame Run will search to; -1
	// means "run until the acoustics source reports EOF".
	EndFrame int
	// WordBoundary and DummyWordBoundaries are carried here (and filled
	// from config.Toolbox) but Search does not read them: no boundary
	// word is inserted into LM contexts or hypothesis paths, and
	// prune_similar compares word histories without regard to
	// boundaries.
	WordBoundary        []string
	DummyWordBoundaries bool
	// Verbose, PrintProbs, PrintIndices, PrintFrames control optional
	// diagnostic output a caller (typically cmd/decode) may surface.
	Verbose      bool
	PrintProbs   bool
	PrintIndices bool
	PrintFrames  bool
	// MultipleEndings allows recognize_segment to return more than one
	// best-scoring final hypothesis when several tie.
	MultipleEndings bool
}

// DefaultConfig returns conservative defaults, of the same order of
// magnitude as the teacher's decoder.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		HypoLimit:    500,
		WordLimit:    30,
		WordBeam:     150.0,
		GlobalBeam:   200.0,
		LMScale:      1.0,
		LMOffset:     0.0,
		UnkOffset:    0.0,
		PruneSimilar: 2,
		ExpandWindow: 64,
		EndFrame:     -1,
	}
}

// Validate rejects configurations Search cannot run with (spec.md
// §9), grounded in the teacher's decoder.Config validation path in
// decoder/viterbi.go.
func (c Config) Validate() error {
	if c.ExpandWindow <= 0 {
		return &ConfigError{Field: "ExpandWindow", Reason: "must be positive"}
	}
	if c.HypoLimit <= 0 {
		return &ConfigError{Field: "HypoLimit", Reason: "must be positive"}
	}
	if c.WordLimit <= 0 {
		return &ConfigError{Field: "WordLimit", Reason: "must be positive"}
	}
	return nil
}
