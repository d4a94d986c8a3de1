package lextree

import "github.com/ieee0824/noway-decoder/hmm"

// Pronunciation is one entry to insert into the tree: a word id and
// its sequence of HMM names (one per phoneme/unit).
type Pronunciation struct {
	WordID   int
	HMMNames []string
}

// Build constructs a Tree from a list of pronunciations, resolving
// each HMM name against inv, and inserting every emitting state of
// every HMM as one tree node so that the Viterbi merge in the
// expander can recombine at (lexicon_state, hmm_state) granularity as
// spec.md §4.1 requires. Pronunciations naming any unknown HMM are
// skipped entirely.
func Build(prons []Pronunciation, inv *hmm.Inventory) *Tree {
	t := NewTree()
	for _, p := range prons {
		if len(p.HMMNames) == 0 {
			continue
		}
		hmms := make([]*hmm.HMM, 0, len(p.HMMNames))
		for _, name := range p.HMMNames {
			h, found := inv.Get(name)
			if !found {
				break
			}
			hmms = append(hmms, h)
		}
		if len(hmms) != len(p.HMMNames) {
			continue
		}
		node := t.root
		for _, h := range hmms {
			for s := range h.States {
				node = t.AddChild(node, h, s)
			}
		}
		t.AddWord(node, p.WordID)
	}
	return t
}
