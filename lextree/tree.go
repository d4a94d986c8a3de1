// Package lextree implements the pronunciation lexicon as a prefix
// tree of phoneme HMM states (C3). Each node carries a reference to an
// HMM state and a list of children; terminal nodes carry one or more
// word ids (homographs share a terminal). During an Expander call the
// tree also carries a per-state "active token" slot, owned
// exclusively by the single Expander driving that call (spec.md §5) —
// after the Viterbi merge (spec.md §4.1b) at most one token can occupy
// a given lexicon state, so a single slot per node suffices.
package lextree

import "github.com/ieee0824/noway-decoder/hmm"

// State is one node of the lexicon tree: a specific HMM state reached
// by a specific prefix of phonemes.
type State struct {
	id       int
	HMM      *hmm.HMM
	HMMState int
	parent   *State
	children []*State

	// WordIDs is non-empty only at a terminal node: the set of word
	// ids whose pronunciation ends exactly here (homographs).
	WordIDs []int

	// tokenGen/activeToken implement the per-state token slot as a
	// generation-stamped value: an Expander call bumps Tree's
	// generation once and every node whose tokenGen doesn't match is
	// implicitly "no active token", with no per-call sweep over the
	// whole tree needed to clear stale slots.
	tokenGen    int
	activeToken int
}

// ID is a dense index usable for array-based token storage.
func (s *State) ID() int { return s.id }

// Parent returns the predecessor state, or nil at the tree root.
func (s *State) Parent() *State { return s.parent }

// Children returns the lexicon states reachable by one more phoneme.
func (s *State) Children() []*State { return s.children }

// Terminal reports whether this node ends at least one word's
// pronunciation.
func (s *State) Terminal() bool { return len(s.WordIDs) > 0 }

// ActiveToken returns the token index stored at this node for
// generation gen, and whether one is present.
func (s *State) ActiveToken(gen int) (int, bool) {
	if s.tokenGen == gen {
		return s.activeToken, true
	}
	return 0, false
}

// SetActiveToken records tok as the live token at this node for
// generation gen, implementing the Viterbi merge overwrite (spec.md
// §4.1b: only the highest-scoring token per (lexicon_state, hmm_state)
// survives; callers must only call this after comparing scores).
func (s *State) SetActiveToken(gen, tok int) {
	s.tokenGen = gen
	s.activeToken = tok
}

// Tree is the full prefix tree. Root has no HMM state of its own; its
// children are the first phoneme state of every pronunciation.
type Tree struct {
	root       *State
	nodes      []*State // dense id -> node, for per-call token-array sizing
	generation int
}

// NewTree creates an empty lexicon tree.
func NewTree() *Tree {
	root := &State{id: 0, HMMState: -1}
	return &Tree{root: root, nodes: []*State{root}}
}

// Root returns the tree's root node (never itself a valid token
// position: tokens start at Root().Children()).
func (t *Tree) Root() *State { return t.root }

// NumStates returns the dense id space size, for sizing per-call
// token-list arrays.
func (t *Tree) NumStates() int { return len(t.nodes) }

// NextGeneration starts a fresh Expander call's token-slot
// generation; all previously active token slots read as empty from
// this point on.
func (t *Tree) NextGeneration() int {
	t.generation++
	return t.generation
}

// AddChild inserts (or returns the existing) child of parent bound to
// the given HMM and HMM state index, sharing common prefixes the way
// a prefix tree is supposed to.
func (t *Tree) AddChild(parent *State, h *hmm.HMM, hmmState int) *State {
	for _, c := range parent.children {
		if c.HMM == h && c.HMMState == hmmState {
			return c
		}
	}
	n := &State{id: len(t.nodes), HMM: h, HMMState: hmmState, parent: parent}
	parent.children = append(parent.children, n)
	t.nodes = append(t.nodes, n)
	return n
}

// AddWord attaches wordID as a terminal at node (homograph sharing).
func (t *Tree) AddWord(node *State, wordID int) {
	for _, w := range node.WordIDs {
		if w == wordID {
			return
		}
	}
	node.WordIDs = append(node.WordIDs, wordID)
}

// State looks a node up by its dense id, as used by per-call token
// arrays.
func (t *Tree) State(id int) *State { return t.nodes[id] }
