package search

import (
	"strings"
	"testing"

	"github.com/ieee0824/noway-decoder/acoustics"
	"github.com/ieee0824/noway-decoder/expander"
	"github.com/ieee0824/noway-decoder/hmm"
	"github.com/ieee0824/noway-decoder/hypopath"
	"github.com/ieee0824/noway-decoder/lextree"
	"github.com/ieee0824/noway-decoder/ngram"
	"github.com/ieee0824/noway-decoder/vocab"
)

const catCapARPA = `\data\
ngram 1=3

\1-grams:
-1.0 <unk>
-0.1 cat
-5.0 cap

\end\
`

// buildCatCapFixture builds a two-word lexicon ("cat"=1, "cap"=2)
// sharing the k-ae prefix, a unigram LM that strongly favors "cat",
// and the Search wired to recognize one word from a zero-valued
// acoustic source (so only transition/LM scores discriminate the two
// candidates).
func buildCatCapFixture(t *testing.T, endWindow int) (*Search, acoustics.Acoustics) {
	t.Helper()

	inv := hmm.NewInventory()
	inv.Add(hmm.NewLeftToRight("k", []int{0}))
	inv.Add(hmm.NewLeftToRight("ae", []int{1}))
	inv.Add(hmm.NewLeftToRight("t", []int{2}))
	inv.Add(hmm.NewLeftToRight("p", []int{3}))
	tree := lextree.Build([]lextree.Pronunciation{
		{WordID: 1, HMMNames: []string{"k", "ae", "t"}},
		{WordID: 2, HMMNames: []string{"k", "ae", "p"}},
	}, inv)
	exp := expander.New(tree, expander.DefaultConfig())

	lm, err := ngram.LoadARPA(strings.NewReader(catCapARPA))
	if err != nil {
		t.Fatalf("LoadARPA: %v", err)
	}

	vocabulary := vocab.NewVocabulary([]string{"<unk>", "cat", "cap"})
	lexToLM := vocab.BuildLexToLM(vocabulary, lm.WordID)

	cfg := DefaultConfig()
	cfg.ExpandWindow = endWindow
	cfg.WordBeam = 0
	cfg.GlobalBeam = 0

	s, err := New(exp, hypopath.NewArena(), lm, lexToLM, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scores := make([][]float32, 8)
	for i := range scores {
		scores[i] = make([]float32, 4)
	}
	ac := acoustics.NewMemory(scores, 4)
	return s, ac
}

func TestRecognizeSegmentPrefersHigherLMWord(t *testing.T) {
	s, ac := buildCatCapFixture(t, 10)

	results, err := s.RecognizeSegment(ac, 0, 3)
	if err != nil {
		t.Fatalf("RecognizeSegment: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results returned")
	}
	best := results[0]
	if len(best.Words) != 1 || best.Words[0] != 1 {
		t.Fatalf("best path words = %v, want [1] (cat)", best.Words)
	}
}

func TestExpandStackRejectsOutOfWindowFrame(t *testing.T) {
	s, ac := buildCatCapFixture(t, 10)
	if err := s.InitSearch(ac, 0); err != nil {
		t.Fatalf("InitSearch: %v", err)
	}
	if err := s.ExpandStack(-1); err != ForgottenFrame {
		t.Errorf("ExpandStack(-1) = %v, want ForgottenFrame", err)
	}
	if err := s.ExpandStack(100); err != FutureFrame {
		t.Errorf("ExpandStack(100) = %v, want FutureFrame", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tree := lextree.NewTree()
	exp := expander.New(tree, expander.DefaultConfig())
	lm := ngram.New(1)
	v := vocab.NewVocabulary(nil)
	lexToLM := vocab.BuildLexToLM(v, lm.WordID)

	cfg := DefaultConfig()
	cfg.ExpandWindow = 0
	if _, err := New(exp, hypopath.NewArena(), lm, lexToLM, cfg); err == nil {
		t.Error("expected a ConfigError for ExpandWindow = 0")
	}
}

// TestRecognizeSegmentRespectsEndFrame covers spec.md:132's "f' >
// end_frame is skipped": "cat"/"cap" both need a minimum of 3 frames
// to complete (one frame per phoneme, see
// expander.TestExpandFindsMinimalWordPath), so with end_frame=2 the
// word extension landing at frame 3 must be dropped, leaving only the
// empty start-of-segment hypothesis as a result.
func TestRecognizeSegmentRespectsEndFrame(t *testing.T) {
	s, ac := buildCatCapFixture(t, 10)

	results, err := s.RecognizeSegment(ac, 0, 2)
	if err != nil {
		t.Fatalf("RecognizeSegment: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results returned")
	}
	if len(results[0].Words) != 0 {
		t.Fatalf("best path words = %v, want [] (no word completes by end_frame=2)", results[0].Words)
	}
}

func TestResetSearchAllowsReuse(t *testing.T) {
	s, ac := buildCatCapFixture(t, 10)
	if _, err := s.RecognizeSegment(ac, 0, 3); err != nil {
		t.Fatalf("first RecognizeSegment: %v", err)
	}
	s.ResetSearch()
	results, err := s.RecognizeSegment(ac, 0, 3)
	if err != nil {
		t.Fatalf("second RecognizeSegment: %v", err)
	}
	if len(results) == 0 || results[0].Words[0] != 1 {
		t.Fatalf("second run results = %+v, want a repeat of the first", results)
	}
}
