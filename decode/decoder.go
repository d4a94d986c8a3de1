// Package decode is the top-level facade wiring every decoder
// component together: an HMM inventory, lexicon tree, vocabulary, LM,
// Expander and Search. Grounded in the teacher's root-level
// transcript.go Recognizer: same functional-options construction
// pattern, generalized from "one acoustic model + one LM + one dict"
// to this module's C1–C8 component set.
package decode

import (
	"github.com/pkg/errors"

	"github.com/ieee0824/noway-decoder/acoustics"
	"github.com/ieee0824/noway-decoder/expander"
	"github.com/ieee0824/noway-decoder/hmm"
	"github.com/ieee0824/noway-decoder/hypopath"
	"github.com/ieee0824/noway-decoder/lextree"
	"github.com/ieee0824/noway-decoder/ngram"
	"github.com/ieee0824/noway-decoder/search"
	"github.com/ieee0824/noway-decoder/vocab"
)

// Decoder bundles the model state (HMM inventory, lexicon tree,
// vocabulary, LM) with the per-run tuning knobs, and builds a fresh
// Search for each segment. The lexicon tree's per-state token slots
// are owned exclusively by one Expander at a time (spec.md §5); a
// Decoder's Searches must therefore be driven sequentially, one at a
// time, never from concurrent goroutines, even though each NewSearch
// call returns an otherwise-independent Expander/Arena pair.
type Decoder struct {
	inv        *hmm.Inventory
	tree       *lextree.Tree
	vocabulary *vocab.Vocabulary
	lexToLM    *vocab.LexToLM
	lm         search.LanguageModel

	expCfg expander.Config
	srCfg  search.Config
}

// Option customizes a Decoder at construction time, following the
// teacher's transcript.Option pattern (transcript.go).
type Option func(*Decoder)

// WithExpanderConfig overrides the default Expander tuning.
func WithExpanderConfig(cfg expander.Config) Option {
	return func(d *Decoder) { d.expCfg = cfg }
}

// WithSearchConfig overrides the default Search tuning.
func WithSearchConfig(cfg search.Config) Option {
	return func(d *Decoder) { d.srCfg = cfg }
}

// New builds a Decoder from an already-loaded HMM inventory,
// pronunciation list and language model. Dictionary loading is kept
// separate (see LoadDictionary) so callers that already have an
// in-memory lexicon can skip the file-format round trip.
func New(inv *hmm.Inventory, prons []lextree.Pronunciation, vocabulary *vocab.Vocabulary, lm search.LanguageModel, lmWordID func(string) (int, bool), opts ...Option) *Decoder {
	tree := lextree.Build(prons, inv)
	lexToLM := vocab.BuildLexToLM(vocabulary, lmWordID)

	d := &Decoder{
		inv:        inv,
		tree:       tree,
		vocabulary: vocabulary,
		lexToLM:    lexToLM,
		lm:         lm,
		expCfg:     expander.DefaultConfig(),
		srCfg:      search.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromFiles loads an HMM inventory, a tab-separated dictionary and
// an ARPA language model from disk and builds a Decoder, mirroring
// the teacher's NewRecognizer(amPath, lmPath, dictPath, opts...)
// (transcript.go), generalized to this module's model formats.
func NewFromFiles(hmmPath, dictPath, lmPath string, opts ...Option) (*Decoder, error) {
	inv, err := hmm.LoadFile(hmmPath)
	if err != nil {
		return nil, errors.Wrap(err, "load hmm inventory")
	}
	vocabulary, prons, err := lextree.LoadDictionaryFile(dictPath)
	if err != nil {
		return nil, errors.Wrap(err, "load dictionary")
	}
	lm, err := ngram.LoadARPAFile(lmPath)
	if err != nil {
		return nil, errors.Wrap(err, "load language model")
	}
	return New(inv, prons, vocabulary, lm, lm.WordID, opts...), nil
}

// Vocabulary exposes the decoder's word id <-> string bijection, for
// callers that need to render Result.Words as text.
func (d *Decoder) Vocabulary() *vocab.Vocabulary { return d.vocabulary }

// NewSearch builds a fresh Search over this Decoder's shared model
// state, ready for RecognizeSegment. Each Search owns its own HypoPath
// arena, but all Expanders built from a Decoder still share one
// lexicon tree's per-state token slots (spec.md §5), so only one
// Search at a time may be driven against a given Decoder — build and
// run them one after another, not concurrently, even across different
// NewSearch calls.
func (d *Decoder) NewSearch() (*search.Search, error) {
	exp := expander.New(d.tree, d.expCfg)
	arena := hypopath.NewArena()
	return search.New(exp, arena, d.lm, d.lexToLM, d.srCfg)
}

// RecognizeSegment runs one full segment recognition: builds a fresh
// Search and calls RecognizeSegment on it (spec.md §4.3). Callers
// driving many segments over the same acoustics source should instead
// call NewSearch once and drive InitSearch/Run/ResetSearch themselves
// to reuse the HypoPath arena.
func (d *Decoder) RecognizeSegment(ac acoustics.Acoustics, startFrame, endFrame int) ([]search.Result, error) {
	s, err := d.NewSearch()
	if err != nil {
		return nil, err
	}
	return s.RecognizeSegment(ac, startFrame, endFrame)
}

// Words renders a Result's word ids as strings via the Decoder's
// vocabulary.
func (d *Decoder) Words(r search.Result) []string {
	out := make([]string, len(r.Words))
	for i, id := range r.Words {
		out[i] = d.vocabulary.Word(id)
	}
	return out
}
