// Package search implements the frame-synchronous word-stack search
// (C7): driving Expander one word at a time across a sliding window of
// HypoStacks, scoring each extension with the n-gram language model
// and recording its back-pointer in the shared HypoPath arena. Adapted
// from the teacher's decoder.Decode outer frame loop (decoder/viterbi.go),
// generalized from Decode's single flat token pool into the
// stack-per-frame structure spec.md §4.3 describes, with Expander (C6)
// taking over the inner per-frame Viterbi pass that decoder/viterbi.go
// used to do directly.
package search

import (
	"sort"
	"strconv"

	"github.com/ieee0824/noway-decoder/acoustics"
	"github.com/ieee0824/noway-decoder/expander"
	"github.com/ieee0824/noway-decoder/hypopath"
	"github.com/ieee0824/noway-decoder/internal/mathutil"
	"github.com/ieee0824/noway-decoder/vocab"
)

// LanguageModel is the abstract `log_prob(context_ids[], word_id)`
// contract spec.md §6 specifies. Both *ngram.Model and *ngram.Mixture
// satisfy it.
type LanguageModel interface {
	LogProb(contextIDs []int, wordID int) float64
}

// Search drives one decoding segment: InitSearch positions it at a
// start frame, Run or ExpandStack/Go step it forward, and
// RecognizeSegment reports the best word sequence found. Not safe for
// concurrent use (spec.md §5 keeps Search single-threaded).
type Search struct {
	exp     *expander.Expander
	arena   *hypopath.Arena
	lm      LanguageModel
	lexToLM *vocab.LexToLM
	cfg     Config

	win        *window
	ac         acoustics.Acoustics
	startFrame int
	curFrame   int
	globalBest float64

	// endLimit is the segment's effective end frame (spec.md §4.3,
	// "expand_stack": f' > end_frame is skipped), or -1 for "no
	// segment-level limit", the state ExpandStack sees when driven
	// directly rather than through Run.
	endLimit int
}

// New builds a Search over tree (via exp), scoring word extensions
// with lm through the lex->LM id mapping lexToLM.
func New(exp *expander.Expander, arena *hypopath.Arena, lm LanguageModel, lexToLM *vocab.LexToLM, cfg Config) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Search{
		exp:     exp,
		arena:   arena,
		lm:      lm,
		lexToLM: lexToLM,
		cfg:     cfg,
		win:     newWindow(cfg.ExpandWindow, arena),
	}, nil
}

// InitSearch positions the search at startFrame with a single empty
// hypothesis (the decoder-start guard), ready to expand (spec.md
// §4.3, "init_search").
func (s *Search) InitSearch(ac acoustics.Acoustics, startFrame int) error {
	s.win.resetTo(startFrame)
	s.ac = ac
	s.startFrame = startFrame
	s.curFrame = startFrame
	s.globalBest = mathutil.LogZero
	s.endLimit = -1

	root, err := s.win.stack(startFrame)
	if err != nil {
		return err
	}
	root.Insert(Hypo{Frame: startFrame, LogProb: 0, Path: hypopath.Guard})
	s.globalBest = 0
	return nil
}

// ResetSearch clears all window state so the Search can be reused for
// a fresh segment without reallocating (spec.md §4.3, "reset_search").
func (s *Search) ResetSearch() {
	s.win.resetTo(s.startFrame)
	s.ac = nil
	s.globalBest = mathutil.LogZero
	s.endLimit = -1
}

// lmContext walks back from path, collecting up to depth LM-side word
// ids, oldest first, stopping at the decoder-start guard. Used to
// build the n-gram context for scoring a new word — a bounded walk,
// unlike hypopath.Arena.Backtrace which returns the whole path.
func (s *Search) lmContext(path int, depth int) []int {
	var ids []int
	for path != hypopath.Guard && len(ids) < depth {
		ids = append(ids, s.lexToLM.LMID(s.arena.WordID(path)))
		path = s.arena.Prev(path)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// ExpandStack runs Expander from every hypothesis on frame's stack,
// scoring each resulting word candidate with the language model and
// inserting a new hypothesis into the destination frame's stack
// (spec.md §4.3, "expand_stack"). It is a no-op if frame has no live
// hypotheses.
func (s *Search) ExpandStack(frame int) error {
	stack, err := s.win.stack(frame)
	if err != nil {
		return err
	}
	if stack.Empty() {
		return nil
	}
	stack.Sort()

	maxFrames := s.win.capacity() - (frame - s.win.base) - 1
	if maxFrames <= 0 {
		return nil
	}

	touched := make(map[int]bool)

	for i := 0; i < stack.Len(); i++ {
		hypo := stack.At(i)

		result, err := s.exp.Expand(s.ac, frame, maxFrames)
		if err != nil {
			return err
		}
		cands := expander.TopN(result.Candidates, s.cfg.WordLimit)
		if len(cands) == 0 {
			continue
		}
		bestCand := cands[0].AvgLogProb()

		for _, c := range cands {
			if s.cfg.WordBeam > 0 && c.AvgLogProb() < bestCand-s.cfg.WordBeam {
				continue
			}
			destFrame := frame + c.Frames
			if s.endLimit >= 0 && destFrame > s.endLimit {
				// spec.md §4.3 "expand_stack": a target frame past the
				// segment's end frame is skipped, not just one past the
				// window's physical capacity.
				continue
			}
			destStack, err := s.win.stack(destFrame)
			if err != nil {
				// Beyond the window or already forgotten: drop the
				// extension rather than fail the whole expansion.
				continue
			}

			lmID := s.lexToLM.LMID(c.WordID)
			ctx := s.lmContext(hypo.Path, 2)
			lmScore := s.cfg.LMScale*s.lm.LogProb(ctx, lmID) + s.cfg.LMOffset
			if s.lexToLM.Unknown(c.WordID) {
				lmScore += s.cfg.UnkOffset
			}

			total := hypo.LogProb + c.LogProb + lmScore
			if s.cfg.GlobalBeam > 0 && total < s.globalBest-s.cfg.GlobalBeam {
				continue
			}

			path := s.arena.New(c.WordID, frame, hypo.Path, lmScore, c.LogProb)
			destStack.Insert(Hypo{Frame: destFrame, LogProb: total, Path: path})
			touched[destFrame] = true
			if total > s.globalBest {
				s.globalBest = total
			}
		}
	}

	for f := range touched {
		if st, err := s.win.stack(f); err == nil {
			st.Sort()
			if s.cfg.PruneSimilar > 0 {
				pruneSimilar(st, s.arena, s.lexToLM, s.cfg.PruneSimilar)
			}
			st.Prune(s.cfg.HypoLimit)
		}
	}
	return nil
}

// PruneSimilar collapses hypotheses on frame's stack that share the
// same last `length` LM-relevant words, keeping only the best-scoring
// hypothesis per history (spec.md §4.3, "prune_similar(frame, length)",
// a public operation independent of ExpandStack's internal call to it).
// length <= 0 is a no-op.
func (s *Search) PruneSimilar(frame, length int) error {
	if length <= 0 {
		return nil
	}
	st, err := s.win.stack(frame)
	if err != nil {
		return err
	}
	pruneSimilar(st, s.arena, s.lexToLM, length)
	return nil
}

// Go advances the window so frame is the oldest frame still reachable,
// detaching every hypothesis in frames that scroll out (spec.md §4.3,
// "move_buffer"/"go").
func (s *Search) Go(frame int) {
	s.win.advanceTo(frame)
	if frame > s.curFrame {
		s.curFrame = frame
	}
	// Frames that scrolled out no longer count toward the global beam.
	s.globalBest = mathutil.LogZero
	for f := s.win.base; f < s.win.base+s.win.capacity(); f++ {
		if st, err := s.win.stack(f); err == nil && !st.Empty() && st.BestLogProb() > s.globalBest {
			s.globalBest = st.BestLogProb()
		}
	}
}

// Result is the outcome of a completed segment search.
type Result struct {
	Words    []int
	Frames   []int
	LogProb  float64
	HitEOF   bool
	EOFFrame int
}

// Run drives ExpandStack/Go across frames from the current position up
// to maxFrame (or cfg.EndFrame, or acoustic EOF, whichever comes
// first; a negative maxFrame sets no limit of its own), then reports
// the best-scoring path(s) found (spec.md §4.3, "run"). The run also
// stops once no hypothesis is left in the window ahead of the current
// frame, keeping that frame's stack for the report. A nil Acoustics
// error from Expander's internal GoTo ends the run early with HitEOF
// set.
func (s *Search) Run(maxFrame int) ([]Result, error) {
	limit := maxFrame
	if s.cfg.EndFrame >= 0 && (limit < 0 || s.cfg.EndFrame < limit) {
		limit = s.cfg.EndFrame
	}
	s.endLimit = limit

	hitEOF := false
	eofFrame := acoustics.NoEOF

	for f := s.startFrame; limit < 0 || f <= limit; f++ {
		if _, err := s.win.stack(f); err != nil {
			break
		}
		if err := s.ExpandStack(f); err != nil {
			return nil, err
		}
		ok, err := s.ac.GoTo(f)
		if err != nil {
			return nil, err
		}
		if !ok {
			hitEOF = true
			eofFrame = s.ac.EOFFrame()
			break
		}
		// Stop if no hypothesis remains ahead of frame f within the
		// segment. Otherwise drop frame f from the window now that it
		// has been fully expanded, keeping a constant capacity-1 frames
		// of lookahead ahead of the next frame to process.
		last := s.win.base + s.win.capacity() - 1
		if limit >= 0 && last > limit {
			last = limit
		}
		pending := false
		for g := f + 1; g <= last && !pending; g++ {
			if st, err := s.win.stack(g); err == nil && !st.Empty() {
				pending = true
			}
		}
		if !pending {
			break
		}
		s.Go(f + 1)
	}

	return s.recognizeEndings(hitEOF, eofFrame)
}

// RecognizeSegment is the all-in-one entry point: InitSearch, Run to
// endFrame (or EOF), then report the best path(s) (spec.md §4.3,
// "recognize_segment").
func (s *Search) RecognizeSegment(ac acoustics.Acoustics, startFrame, endFrame int) ([]Result, error) {
	if err := s.InitSearch(ac, startFrame); err != nil {
		return nil, err
	}
	return s.Run(endFrame)
}

func (s *Search) recognizeEndings(hitEOF bool, eofFrame int) ([]Result, error) {
	var best []Hypo
	bestScore := mathutil.LogZero
	for f := s.win.base; f < s.win.base+s.win.capacity(); f++ {
		stack, err := s.win.stack(f)
		if err != nil {
			continue
		}
		for i := 0; i < stack.Len(); i++ {
			h := stack.At(i)
			if h.LogProb > bestScore {
				bestScore = h.LogProb
				best = []Hypo{h}
			} else if s.cfg.MultipleEndings && h.LogProb == bestScore {
				best = append(best, h)
			}
		}
	}

	results := make([]Result, 0, len(best))
	for _, h := range best {
		words, frames := s.arena.Backtrace(h.Path)
		results = append(results, Result{
			Words:    words,
			Frames:   frames,
			LogProb:  h.LogProb,
			HitEOF:   hitEOF,
			EOFFrame: eofFrame,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].LogProb > results[j].LogProb })
	return results, nil
}

// pruneSimilar collapses hypotheses that share the same short LM
// history, keeping only the best-scoring one per history (spec.md
// §4.3, "prune_similar"): once the n-gram model can no longer
// distinguish two hypotheses' futures, the lower-scoring one can never
// recover the gap, so the tree it is the root of is cut early.
func pruneSimilar(st *HypoStack, arena *hypopath.Arena, lexToLM *vocab.LexToLM, depth int) {
	seen := make(map[string]int, st.Len()) // history key -> winning slice index
	var drop []int

	for i := 0; i < st.Len(); i++ {
		h := st.At(i)
		key := similarKey(arena, lexToLM, h.Path, depth)
		if prev, ok := seen[key]; ok {
			if st.At(prev).LogProb >= h.LogProb {
				drop = append(drop, i)
				continue
			}
			drop = append(drop, prev)
			seen[key] = i
			continue
		}
		seen[key] = i
	}

	sort.Sort(sort.Reverse(sort.IntSlice(drop)))
	for _, idx := range drop {
		st.RemoveAt(idx)
	}
}

// similarKey builds a comparable map key out of the last depth
// LM-relevant word ids on path, oldest first, padded with
// vocab.UnknownID where the history is shorter than depth. depth is a
// runtime value (spec.md's prune_similar length argument), so the key
// is a delimited string rather than a fixed-size array.
func similarKey(arena *hypopath.Arena, lexToLM *vocab.LexToLM, path int, depth int) string {
	ids := make([]int, depth)
	for i := range ids {
		ids[i] = vocab.UnknownID
	}
	for i := depth - 1; i >= 0 && path != hypopath.Guard; i-- {
		ids[i] = lexToLM.LMID(arena.WordID(path))
		path = arena.Prev(path)
	}
	buf := make([]byte, 0, depth*6)
	for _, id := range ids {
		buf = strconv.AppendInt(buf, int64(id), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}
