// Package hmm holds the immutable inventory of phoneme HMMs (C2):
// ordered states, their outgoing transitions and optional
// state-duration distributions.
//
// Only emitting states are represented explicitly. Non-emitting
// entry/exit pass-through states never persist across a frame
// boundary, so they are folded into the transition they gate: a
// Transition with Target == Exit leaves the unit entirely (to the
// next unit's first state, or to a word terminal), the same role the
// teacher's acoustic.PhonemeHMM non-emitting states 0 and
// NumStatesPerPhoneme-1 play in acoustic/hmm.go.
package hmm

import "github.com/ieee0824/noway-decoder/internal/mathutil"

// Exit is the sentinel transition target meaning "leave this unit".
const Exit = -1

// Transition is a single outgoing edge from a state, with its log
// probability. Target == Exit leaves the HMM.
type Transition struct {
	Target  int
	LogProb float64
}

// Duration holds a per-state duration distribution d(k): the log
// probability of remaining exactly k frames in the state, k = 1..N.
// A nil *Duration means "no duration model" (log-prob 0 for any k).
type Duration struct {
	LogProbs []float64
}

// LogProb returns d(k), clamped to mathutil.LogZero outside the
// modeled range. A nil receiver contributes no penalty.
func (d *Duration) LogProb(k int) float64 {
	if d == nil {
		return 0
	}
	if k < 1 || k > len(d.LogProbs) {
		return mathutil.LogZero
	}
	return d.LogProbs[k-1]
}

// State is one emitting state of an HMM: its emission-model id into
// the Acoustics source, its outgoing transitions and an optional
// duration distribution.
type State struct {
	EmissionModel int
	Transitions   []Transition
	Duration      *Duration
}

// HMM is an immutable phoneme (or sub-phoneme) unit: an ordered set of
// emitting states and their transitions.
type HMM struct {
	Name   string
	States []State
}

// Final is the index of the last state; a token occupying it with an
// Exit transition available satisfies spec.md §4.1's "forced_end"
// test ("a token reaches a terminal lexicon state and its HMM final
// state").
func (h *HMM) Final() int { return len(h.States) - 1 }

// Inventory is the immutable, read-only set of HMMs shared freely by
// any number of Expander/Search instances (spec.md §5).
type Inventory struct {
	byName map[string]*HMM
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{byName: make(map[string]*HMM)}
}

// Add inserts an HMM into the inventory, keyed by its name.
func (inv *Inventory) Add(h *HMM) {
	inv.byName[h.Name] = h
}

// Get looks up an HMM by name.
func (inv *Inventory) Get(name string) (*HMM, bool) {
	h, ok := inv.byName[name]
	return h, ok
}

// Len returns the number of distinct HMMs in the inventory.
func (inv *Inventory) Len() int {
	return len(inv.byName)
}

// NewLeftToRight builds a standard left-to-right HMM: each state has a
// self-loop and a forward transition of equal log-probability; the
// last state's forward transition is an Exit transition.
// This mirrors the teacher's fixed 3-emitting-state phoneme topology
// (acoustic.NewPhonemeHMM, internal/mathutil.LogHalf) but is
// parameterized over state count and emission model ids so it can
// express arbitrary phoneme or sub-phoneme units.
func NewLeftToRight(name string, emissionModels []int) *HMM {
	n := len(emissionModels)
	h := &HMM{Name: name, States: make([]State, n)}
	logHalf := mathutil.LogHalf

	for i := 0; i < n; i++ {
		var trans []Transition
		trans = append(trans, Transition{Target: i, LogProb: logHalf})
		if i < n-1 {
			trans = append(trans, Transition{Target: i + 1, LogProb: logHalf})
		} else {
			trans = append(trans, Transition{Target: Exit, LogProb: logHalf})
		}
		h.States[i] = State{EmissionModel: emissionModels[i], Transitions: trans}
	}
	return h
}
