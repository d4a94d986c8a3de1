// Package expander implements the time-synchronous Viterbi-style
// token-pass over the lexicon tree (C6): given a start frame, it
// produces a ranked list of candidate word hypotheses reachable from
// that frame. Grounded in the teacher's decoder.Decode frame-loop and
// token-pool structure (decoder/viterbi.go), generalized from a
// whole-sentence word-history search into a per-segment word-emitter
// that Search (C7) drives one word at a time.
package expander

import (
	"sort"

	"github.com/ieee0824/noway-decoder/acoustics"
	"github.com/ieee0824/noway-decoder/hmm"
	"github.com/ieee0824/noway-decoder/internal/mathutil"
	"github.com/ieee0824/noway-decoder/lextree"
)

// Candidate is a ranked word candidate emitted by Expand (spec.md §3,
// "Word candidate").
type Candidate struct {
	WordID  int
	Frames  int
	LogProb float64
}

// AvgLogProb is log_prob / frames, the ranking key spec.md §4.1
// defines for the output ordering.
func (c Candidate) AvgLogProb() float64 {
	if c.Frames == 0 {
		return mathutil.LogZero
	}
	return c.LogProb / float64(c.Frames)
}

// Result is everything one Expand call produces.
type Result struct {
	// Candidates is sorted by AvgLogProb descending (spec.md §4.1
	// step 3).
	Candidates []Candidate
	// HitEOF reports whether the acoustic source ran out of frames
	// before max_frames were consumed.
	HitEOF bool
	// eofFrame mirrors Acoustics.EOFFrame() when HitEOF is true.
	eofFrame int
	// FramesExpanded is the number of frames actually stepped through.
	FramesExpanded int
}

// EOFFrame returns the frame Expand's acoustics source reported as its
// first unavailable frame, or acoustics.NoEOF if HitEOF is false
// (SPEC_FULL.md §10, "eof_frame()" as a first-class Expander-result
// accessor).
func (r Result) EOFFrame() int { return r.eofFrame }

// TopN trims cands to its best n entries (already sorted by
// AvgLogProb descending), implementing the package-level
// "keep_best_tokens(N)" semantics spec.md §4.1 step 3 mentions.
func TopN(cands []Candidate, n int) []Candidate {
	if n < 0 || len(cands) <= n {
		return cands
	}
	return cands[:n]
}

// KeepBestTokens is Expander's own "keep_best_tokens(N)" entry point
// (SPEC_FULL.md §10): equivalent to TopN, exposed as a method so
// callers holding only an *Expander, not a free function reference,
// can apply it to a Result's Candidates.
func (e *Expander) KeepBestTokens(cands []Candidate, n int) []Candidate {
	return TopN(cands, n)
}

// Expander runs one token-pass over a Tree using a given Acoustics
// source. A Tree's per-state token slots are owned exclusively by one
// Expander during a call (spec.md §5); do not share a Tree between
// concurrently-running Expanders.
type Expander struct {
	tree *lextree.Tree
	cfg  Config
}

// New creates an Expander over tree with the given configuration.
func New(tree *lextree.Tree, cfg Config) *Expander {
	return &Expander{tree: tree, cfg: cfg}
}

// token is a live hypothesis bound to a lexicon state (spec.md §3,
// "Token"). EntryFrame is constant across one Expand call (every
// token originates at startFrame) but is kept as a field for fidelity
// to the spec's data model and because Search's callers may want it.
type token struct {
	node          *lextree.State
	logProb       float64
	framesInState int
	entryFrame    int
}

// Expand produces word candidates reachable from startFrame within
// 1..maxFrames frames (spec.md §4.1).
func (e *Expander) Expand(ac acoustics.Acoustics, startFrame, maxFrames int) (Result, error) {
	tree := e.tree
	best := make(map[int]Candidate) // wordID -> best candidate seen this call

	emit := func(wordIDs []int, frames int, logProb float64) {
		for _, w := range wordIDs {
			if c, ok := best[w]; !ok || logProb > c.LogProb {
				best[w] = Candidate{WordID: w, Frames: frames, LogProb: logProb}
			}
		}
	}

	ok, err := ac.GoTo(startFrame)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{HitEOF: true, eofFrame: ac.EOFFrame()}, nil
	}

	gen := tree.NextGeneration()
	var current []token

	addToken := func(buf []token, node *lextree.State, logProb float64, framesInState, entryFrame int, gen int) []token {
		if idx, has := node.ActiveToken(gen); has {
			if logProb > buf[idx].logProb {
				buf[idx] = token{node: node, logProb: logProb, framesInState: framesInState, entryFrame: entryFrame}
			}
			return buf
		}
		idx := len(buf)
		buf = append(buf, token{node: node, logProb: logProb, framesInState: framesInState, entryFrame: entryFrame})
		node.SetActiveToken(gen, idx)
		return buf
	}

	// Initial tokens: one per root-child lexicon state (spec.md §4.1
	// step 1).
	for _, child := range tree.Root().Children() {
		st := child.HMM.States[child.HMMState]
		acScore := float64(ac.LogProb(st.EmissionModel))
		durScore := e.cfg.DurationScale * st.Duration.LogProb(1)
		lp := acScore + durScore
		current = addToken(current, child, lp, 1, startFrame, gen)
		if child.Terminal() && !e.cfg.ForcedEnd {
			emit(child.WordIDs, 1, lp)
		}
	}

	framesExpanded := 1
	hitEOF := false
	eofFrame := acoustics.NoEOF

	for f := startFrame + 1; f < startFrame+maxFrames; f++ {
		if len(current) == 0 {
			break
		}
		ok, err := ac.GoTo(f)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			hitEOF = true
			eofFrame = ac.EOFFrame()
			break
		}

		nextGen := tree.NextGeneration()
		var next []token
		bestNext := mathutil.LogZero

		for _, tok := range current {
			node := tok.node
			st := node.HMM.States[node.HMMState]
			for _, tr := range st.Transitions {
				switch {
				case tr.Target == node.HMMState:
					// Self-loop: stay in the same state.
					frames := tok.framesInState + 1
					acScore := float64(ac.LogProb(st.EmissionModel))
					lp := tok.logProb + e.cfg.TransitionScale*tr.LogProb + e.cfg.DurationScale*st.Duration.LogProb(frames) + acScore
					next = addToken(next, node, lp, frames, tok.entryFrame, nextGen)
					if lp > bestNext {
						bestNext = lp
					}
					if node.Terminal() && !e.cfg.ForcedEnd {
						emit(node.WordIDs, f+1-tok.entryFrame, lp)
					}
				case tr.Target == hmm.Exit:
					// Exit to every child lexicon state (next
					// phoneme, or a longer homograph-sharing word).
					for _, child := range node.Children() {
						cst := child.HMM.States[child.HMMState]
						acScore := float64(ac.LogProb(cst.EmissionModel))
						lp := tok.logProb + e.cfg.TransitionScale*tr.LogProb + e.cfg.DurationScale*cst.Duration.LogProb(1) + acScore
						next = addToken(next, child, lp, 1, tok.entryFrame, nextGen)
						if lp > bestNext {
							bestNext = lp
						}
						if child.Terminal() && !e.cfg.ForcedEnd {
							emit(child.WordIDs, f+1-tok.entryFrame, lp)
						}
					}
					if node.Terminal() {
						emit(node.WordIDs, f-tok.entryFrame, tok.logProb+e.cfg.TransitionScale*tr.LogProb)
					}
				default:
					// Forward transition within the same HMM.
					var destNode *lextree.State
					for _, child := range node.Children() {
						if child.HMM == node.HMM && child.HMMState == tr.Target {
							destNode = child
							break
						}
					}
					if destNode == nil {
						continue
					}
					dst := destNode.HMM.States[destNode.HMMState]
					acScore := float64(ac.LogProb(dst.EmissionModel))
					lp := tok.logProb + e.cfg.TransitionScale*tr.LogProb + e.cfg.DurationScale*dst.Duration.LogProb(1) + acScore
					next = addToken(next, destNode, lp, 1, tok.entryFrame, nextGen)
					if lp > bestNext {
						bestNext = lp
					}
				}
			}
		}

		next = pruneBeam(next, bestNext, e.cfg.Beam)
		next = pruneDuration(next, e.cfg.MaxStateDuration)
		next = pruneLimit(next, e.cfg.TokenLimit)

		current = next
		framesExpanded++
	}

	cands := make([]Candidate, 0, len(best))
	for _, c := range best {
		cands = append(cands, c)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].AvgLogProb() > cands[j].AvgLogProb()
	})

	return Result{
		Candidates:     cands,
		HitEOF:         hitEOF,
		eofFrame:       eofFrame,
		FramesExpanded: framesExpanded,
	}, nil
}

// pruneBeam drops tokens below bestNext-beam (spec.md §4.1 step d).
func pruneBeam(toks []token, bestNext, beam float64) []token {
	if beam <= 0 || bestNext == mathutil.LogZero {
		return toks
	}
	threshold := bestNext - beam
	out := toks[:0]
	for _, t := range toks {
		if t.logProb >= threshold {
			out = append(out, t)
		}
	}
	return out
}

// pruneDuration drops tokens whose frames-in-state exceeds the cap
// (spec.md §4.1 step f).
func pruneDuration(toks []token, maxDur int) []token {
	if maxDur <= 0 {
		return toks
	}
	out := toks[:0]
	for _, t := range toks {
		if t.framesInState <= maxDur {
			out = append(out, t)
		}
	}
	return out
}

// pruneLimit keeps the top tokenLimit tokens by log_prob, ties broken
// by insertion order (spec.md §4.1 step e).
func pruneLimit(toks []token, limit int) []token {
	if limit <= 0 || len(toks) <= limit {
		return toks
	}
	type idxTok struct {
		tok token
		pos int
	}
	indexed := make([]idxTok, len(toks))
	for i, t := range toks {
		indexed[i] = idxTok{tok: t, pos: i}
	}
	sort.SliceStable(indexed, func(i, j int) bool {
		return indexed[i].tok.logProb > indexed[j].tok.logProb
	})
	indexed = indexed[:limit]
	sort.SliceStable(indexed, func(i, j int) bool {
		return indexed[i].pos < indexed[j].pos
	})
	out := make([]token, limit)
	for i, it := range indexed {
		out[i] = it.tok
	}
	return out
}
