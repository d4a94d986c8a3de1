// Package config loads the decoder's tunables from a YAML file,
// grounded in the teacher pack's emmc15-vox/internal/config.Config
// idiom: a nested struct with yaml tags, a DefaultConfig constructor,
// and Load/Save wrappers around gopkg.in/yaml.v3.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ieee0824/noway-decoder/expander"
	"github.com/ieee0824/noway-decoder/search"
)

// Paths names the model and dictionary files a run loads (spec.md
// §9).
type Paths struct {
	HMM  string `yaml:"hmm"`
	Dict string `yaml:"dict"`
	LM   string `yaml:"lm"`
}

// ExpanderConfig mirrors expander.Config field-for-field so it can
// carry yaml tags without imposing them on the expander package
// itself.
type ExpanderConfig struct {
	TokenLimit       int     `yaml:"token_limit"`
	Beam             float64 `yaml:"beam"`
	ForcedEnd        bool    `yaml:"forced_end"`
	MaxStateDuration int     `yaml:"max_state_duration"`
	DurationScale    float64 `yaml:"duration_scale"`
	TransitionScale  float64 `yaml:"transition_scale"`
}

// SearchConfig mirrors search.Config field-for-field, see
// ExpanderConfig.
type SearchConfig struct {
	HypoLimit           int      `yaml:"hypo_limit"`
	WordLimit           int      `yaml:"word_limit"`
	WordBeam            float64  `yaml:"word_beam"`
	GlobalBeam          float64  `yaml:"global_beam"`
	LMScale             float64  `yaml:"lm_scale"`
	LMOffset            float64  `yaml:"lm_offset"`
	UnkOffset           float64  `yaml:"unk_offset"`
	PruneSimilar        int      `yaml:"prune_similar"`
	ExpandWindow        int      `yaml:"expand_window"`
	EndFrame            int      `yaml:"end_frame"`
	WordBoundary        []string `yaml:"word_boundary"`
	DummyWordBoundaries bool     `yaml:"dummy_word_boundaries"`
	MultipleEndings     bool     `yaml:"multiple_endings"`
}

// Diagnostics groups the optional trace-output flags spec.md §9
// lists, all otherwise dead weight on search.Config.
type Diagnostics struct {
	Verbose      bool `yaml:"verbose"`
	PrintProbs   bool `yaml:"print_probs"`
	PrintIndices bool `yaml:"print_indices"`
	PrintFrames  bool `yaml:"print_frames"`
}

// Toolbox is the full on-disk configuration: paths plus every
// Expander/Search tunable spec.md §9 enumerates.
type Toolbox struct {
	Paths       Paths          `yaml:"paths"`
	Expander    ExpanderConfig `yaml:"expander"`
	Search      SearchConfig   `yaml:"search"`
	Diagnostics Diagnostics    `yaml:"diagnostics"`
}

// DefaultToolbox returns a Toolbox seeded from expander.DefaultConfig
// and search.DefaultConfig, so a zero-config run still behaves
// sensibly.
func DefaultToolbox() *Toolbox {
	ec := expander.DefaultConfig()
	sc := search.DefaultConfig()
	return &Toolbox{
		Expander: ExpanderConfig{
			TokenLimit:       ec.TokenLimit,
			Beam:             ec.Beam,
			ForcedEnd:        ec.ForcedEnd,
			MaxStateDuration: ec.MaxStateDuration,
			DurationScale:    ec.DurationScale,
			TransitionScale:  ec.TransitionScale,
		},
		Search: SearchConfig{
			HypoLimit:    sc.HypoLimit,
			WordLimit:    sc.WordLimit,
			WordBeam:     sc.WordBeam,
			GlobalBeam:   sc.GlobalBeam,
			LMScale:      sc.LMScale,
			LMOffset:     sc.LMOffset,
			UnkOffset:    sc.UnkOffset,
			PruneSimilar: sc.PruneSimilar,
			ExpandWindow: sc.ExpandWindow,
			EndFrame:     sc.EndFrame,
		},
	}
}

// Load reads and parses a YAML Toolbox file, starting from
// DefaultToolbox so any field the file omits keeps its default.
func Load(path string) (*Toolbox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	tb := DefaultToolbox()
	if err := yaml.Unmarshal(data, tb); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return tb, nil
}

// Save writes tb to path as YAML.
func (tb *Toolbox) Save(path string) error {
	data, err := yaml.Marshal(tb)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// ToExpanderConfig converts the Toolbox's expander section to an
// expander.Config ready for expander.New.
func (tb *Toolbox) ToExpanderConfig() expander.Config {
	ec := tb.Expander
	return expander.Config{
		TokenLimit:       ec.TokenLimit,
		Beam:             ec.Beam,
		ForcedEnd:        ec.ForcedEnd,
		MaxStateDuration: ec.MaxStateDuration,
		DurationScale:    ec.DurationScale,
		TransitionScale:  ec.TransitionScale,
	}
}

// ToSearchConfig converts the Toolbox's search section to a
// search.Config ready for search.New.
func (tb *Toolbox) ToSearchConfig() search.Config {
	sc := tb.Search
	return search.Config{
		HypoLimit:           sc.HypoLimit,
		WordLimit:           sc.WordLimit,
		WordBeam:            sc.WordBeam,
		GlobalBeam:          sc.GlobalBeam,
		LMScale:             sc.LMScale,
		LMOffset:            sc.LMOffset,
		UnkOffset:           sc.UnkOffset,
		PruneSimilar:        sc.PruneSimilar,
		ExpandWindow:        sc.ExpandWindow,
		EndFrame:            sc.EndFrame,
		WordBoundary:        sc.WordBoundary,
		DummyWordBoundaries: sc.DummyWordBoundaries,
		Verbose:             tb.Diagnostics.Verbose,
		PrintProbs:          tb.Diagnostics.PrintProbs,
		PrintIndices:        tb.Diagnostics.PrintIndices,
		PrintFrames:         tb.Diagnostics.PrintFrames,
		MultipleEndings:     sc.MultipleEndings,
	}
}
