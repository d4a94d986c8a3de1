package search

import (
	"sort"

	"github.com/ieee0824/noway-decoder/hypopath"
	"github.com/ieee0824/noway-decoder/internal/mathutil"
)

// Hypo is one hypothesis in a HypoStack (spec.md §3): the frame at
// which the next word must begin, the cumulative acoustic+LM score of
// the word sequence ending there, and a reference into the shared
// HypoPath DAG.
type Hypo struct {
	Frame   int
	LogProb float64
	Path    int // hypopath.Guard at the decoder start
}

// HypoStack is the ordered multiset of Hypos for one specific frame,
// plus the cached best score/index spec.md §3 and §9 describe. Best
// tracking is centralized here — every mutating method updates it —
// rather than left to ad hoc resets scattered across callers, which
// spec.md §9's open-question resolution calls for explicitly.
type HypoStack struct {
	arena *hypopath.Arena
	hypos []Hypo

	bestLogProb float64
	bestIndex   int
	sorted      bool
}

func newHypoStack(arena *hypopath.Arena) *HypoStack {
	return &HypoStack{arena: arena, bestLogProb: mathutil.LogZero, bestIndex: -1}
}

// Len returns the number of live hypotheses.
func (s *HypoStack) Len() int { return len(s.hypos) }

// Empty reports whether the stack holds no hypotheses.
func (s *HypoStack) Empty() bool { return len(s.hypos) == 0 }

// At returns the i-th hypothesis (valid regardless of sort order).
func (s *HypoStack) At(i int) Hypo { return s.hypos[i] }

// BestLogProb returns the best score currently on the stack.
func (s *HypoStack) BestLogProb() float64 { return s.bestLogProb }

// BestIndex returns the slice position of the best-scoring
// hypothesis.
func (s *HypoStack) BestIndex() int { return s.bestIndex }

// Best returns the best-scoring hypothesis. Panics if the stack is
// empty — callers must check Empty() first.
func (s *HypoStack) Best() Hypo { return s.hypos[s.bestIndex] }

func (s *HypoStack) recomputeBest() {
	s.bestLogProb = mathutil.LogZero
	s.bestIndex = -1
	for i, h := range s.hypos {
		if h.LogProb > s.bestLogProb {
			s.bestLogProb = h.LogProb
			s.bestIndex = i
		}
	}
	s.sorted = false
}

// Insert adds a new hypothesis, attaching its path reference and
// refreshing best-tracking in O(1) without a full rescan.
func (s *HypoStack) Insert(h Hypo) {
	s.arena.Attach(h.Path)
	s.hypos = append(s.hypos, h)
	if h.LogProb > s.bestLogProb {
		s.bestLogProb = h.LogProb
		s.bestIndex = len(s.hypos) - 1
	}
	s.sorted = false
}

// RemoveAt detaches and removes the hypothesis at index i, recomputing
// best-tracking (invalidated by the removal, per spec.md §9's note
// that sort/partial_sort/prune invalidate best_index).
func (s *HypoStack) RemoveAt(i int) {
	s.arena.Detach(s.hypos[i].Path)
	s.hypos = append(s.hypos[:i], s.hypos[i+1:]...)
	s.recomputeBest()
}

// Sort orders hypotheses by LogProb descending (spec.md §8 property
// 2). Stable so insertion order breaks ties deterministically.
func (s *HypoStack) Sort() {
	sort.SliceStable(s.hypos, func(i, j int) bool {
		return s.hypos[i].LogProb > s.hypos[j].LogProb
	})
	if len(s.hypos) > 0 {
		s.bestIndex = 0
		s.bestLogProb = s.hypos[0].LogProb
	} else {
		s.bestIndex = -1
		s.bestLogProb = mathutil.LogZero
	}
	s.sorted = true
}

// Sorted reports whether Sort has run since the last mutation.
func (s *HypoStack) Sorted() bool { return s.sorted }

// Clear detaches every hypothesis's path reference and empties the
// stack — used when a frame falls out of the ring window (spec.md
// §4.3, "move_buffer").
func (s *HypoStack) Clear() {
	for _, h := range s.hypos {
		s.arena.Detach(h.Path)
	}
	s.hypos = s.hypos[:0]
	s.bestLogProb = mathutil.LogZero
	s.bestIndex = -1
	s.sorted = false
}

// Prune keeps the best limit hypotheses by LogProb, assuming Sort has
// already run (spec.md §4.3, "Stack pruning"). limit <= 0 disables
// the cut.
func (s *HypoStack) Prune(limit int) {
	if !s.sorted {
		s.Sort()
	}
	if limit <= 0 || len(s.hypos) <= limit {
		return
	}
	for i := limit; i < len(s.hypos); i++ {
		s.arena.Detach(s.hypos[i].Path)
	}
	s.hypos = s.hypos[:limit]
	s.recomputeBest()
	// recomputeBest marks unsorted, but a prefix of an already-sorted
	// descending slice is still sorted.
	s.sorted = true
	if len(s.hypos) > 0 {
		s.bestIndex = 0
		s.bestLogProb = s.hypos[0].LogProb
	}
}
