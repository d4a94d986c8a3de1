package search

import "github.com/ieee0824/noway-decoder/hypopath"

// window is the ring buffer of HypoStacks backing Search's sliding
// frame view (spec.md §4.3, "Frame window"). The stack for frame f
// lives in slot f mod len(slots); advancing the base clears and
// recycles the slot that scrolls out, so capacity is fixed regardless
// of how long the utterance runs — the ring-bijection property spec.md
// §8 calls out.
type window struct {
	slots []*HypoStack
	base  int
}

func newWindow(capacity int, arena *hypopath.Arena) *window {
	slots := make([]*HypoStack, capacity)
	for i := range slots {
		slots[i] = newHypoStack(arena)
	}
	return &window{slots: slots, base: 0}
}

// stack returns the HypoStack for frame, or ForgottenFrame/FutureFrame
// if it has scrolled out of or not yet entered the window.
func (w *window) stack(frame int) (*HypoStack, error) {
	if frame < w.base {
		return nil, ForgottenFrame
	}
	if frame >= w.base+len(w.slots) {
		return nil, FutureFrame
	}
	return w.slots[frame%len(w.slots)], nil
}

// advanceTo moves the window's base forward to newBase, clearing
// (detaching) every stack that falls out of range. newBase <= the
// current base is a no-op.
func (w *window) advanceTo(newBase int) {
	if newBase <= w.base {
		return
	}
	limit := newBase
	if limit > w.base+len(w.slots) {
		limit = w.base + len(w.slots)
	}
	for f := w.base; f < limit; f++ {
		w.slots[f%len(w.slots)].Clear()
	}
	w.base = newBase
}

// resetTo clears every slot and repositions the window's base at
// frame, for reuse across segments without reallocating.
func (w *window) resetTo(frame int) {
	for _, s := range w.slots {
		s.Clear()
	}
	w.base = frame
}

// capacity returns how many frames ahead of base the window can hold.
func (w *window) capacity() int { return len(w.slots) }
