// Package hypopath implements the shared-suffix hypothesis-path DAG
// (C8): a reference-counted word back-pointer graph so that many
// surviving Search hypotheses sharing long common prefixes cost
// space proportional to their unique suffixes, not to total path
// length (spec.md §4.2).
//
// Nodes live in an arena indexed by int, per the design note in
// spec.md §9 preferring "an arena of nodes with integer indices and
// an explicit refcount column" over per-node heap allocation plus a
// shared-ownership primitive — it removes per-node allocation and
// makes the collapse chain on detach a tight loop over indices.
package hypopath

// Guard is the sentinel predecessor index representing decoder start
// (spec.md §4.2, "guard: sentinel predicate prev == null").
const Guard = -1

type node struct {
	wordID    int
	frame     int
	prev      int
	lmLogProb float64
	acLogProb float64
	refcount  int
	inUse     bool
}

// Arena owns every HypoPath node for one decoder instance. It is not
// safe for concurrent use without external synchronization; spec.md
// §5 keeps Search single-threaded.
type Arena struct {
	nodes     []node
	freeList  []int
	live      int
	allocated int
	freed     int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) alloc() int {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		return idx
	}
	a.nodes = append(a.nodes, node{})
	return len(a.nodes) - 1
}

// New allocates a node with the given word id, entry frame and
// predecessor (Guard for decoder start), linking prev and
// incrementing its refcount. The new node itself has refcount 0 until
// Attach is called — spec.md §4.2: "Newly created node has refcount 0
// until attached to a Hypo."
func (a *Arena) New(wordID, frame, prev int, lmLogProb, acLogProb float64) int {
	idx := a.alloc()
	a.nodes[idx] = node{
		wordID:    wordID,
		frame:     frame,
		prev:      prev,
		lmLogProb: lmLogProb,
		acLogProb: acLogProb,
		refcount:  0,
		inUse:     true,
	}
	if prev != Guard {
		a.nodes[prev].refcount++
	}
	a.live++
	a.allocated++
	return idx
}

// Attach increments node's refcount, as when a Hypo starts
// referencing it.
func (a *Arena) Attach(idx int) {
	if idx == Guard {
		return
	}
	a.nodes[idx].refcount++
}

// Detach decrements node's refcount. If it reaches zero the node is
// deleted and its predecessor is detached in turn — iteratively, not
// recursively, to bound stack depth on long sentences (spec.md §3,
// §4.2, §9 "keep the unlink loop iterative").
func (a *Arena) Detach(idx int) {
	for idx != Guard {
		n := &a.nodes[idx]
		n.refcount--
		if n.refcount > 0 {
			return
		}
		prev := n.prev
		a.free(idx)
		idx = prev
	}
}

func (a *Arena) free(idx int) {
	a.nodes[idx] = node{}
	a.freeList = append(a.freeList, idx)
	a.live--
	a.freed++
}

// WordID, Frame, Prev, LMLogProb and AcLogProb read a live node's
// fields (spec.md §3 HypoPath fields). Calling these on a freed or
// out-of-range index is a programming error.
func (a *Arena) WordID(idx int) int        { return a.nodes[idx].wordID }
func (a *Arena) Frame(idx int) int         { return a.nodes[idx].frame }
func (a *Arena) Prev(idx int) int          { return a.nodes[idx].prev }
func (a *Arena) LMLogProb(idx int) float64 { return a.nodes[idx].lmLogProb }
func (a *Arena) AcLogProb(idx int) float64 { return a.nodes[idx].acLogProb }

// Refcount exposes a node's current reference count, for tests.
func (a *Arena) Refcount(idx int) int {
	if idx == Guard {
		return -1
	}
	return a.nodes[idx].refcount
}

// Live returns the number of nodes created and not yet freed,
// including new nodes not yet attached — the diagnostic counter spec.md §9 asks for ("the source
// keeps a process-wide HypoPath counter for diagnostics; in the
// rewrite this becomes a field of an owning allocator/arena").
func (a *Arena) Live() int { return a.live }

// Allocated returns the total number of nodes ever created.
func (a *Arena) Allocated() int { return a.allocated }

// Freed returns the total number of nodes ever deleted.
func (a *Arena) Freed() int { return a.freed }

// Backtrace walks from idx to Guard, returning word ids and entry
// frames oldest-first.
func (a *Arena) Backtrace(idx int) (words []int, frames []int) {
	for idx != Guard {
		n := &a.nodes[idx]
		words = append(words, n.wordID)
		frames = append(frames, n.frame)
		idx = n.prev
	}
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
		frames[i], frames[j] = frames[j], frames[i]
	}
	return words, frames
}
