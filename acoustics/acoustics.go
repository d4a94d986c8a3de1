// Package acoustics defines the Acoustics source contract (C1) and
// ships two concrete implementations: an in-memory matrix
// (memory.go) and a binary LNA stream reader (lna.go). The decoder
// core (expander, search) depends only on the Acoustics interface, as
// spec.md §9's "dynamic dispatch" note requires, so a caller's own
// LNA/ARPA/binary reader plugs in without recompiling the core.
package acoustics

import "github.com/pkg/errors"

// ErrFrameDiscarded is returned by GoTo when the requested frame lies
// before a pipe-backed source's retention window and can no longer be
// revisited (spec.md §6).
var ErrFrameDiscarded = errors.New("acoustics: frame discarded, before first retained frame")

// NoEOF is the eof_frame() sentinel meaning "no EOF encountered yet".
const NoEOF = -1

// Acoustics is the frame-indexed acoustic log-probability source
// (spec.md §6). Implementations are polymorphic over this capability
// set so the LNA reader, a precomputed matrix, or a caller's own
// decoder plug in interchangeably.
type Acoustics interface {
	// GoTo positions the source at frame, returning false if frame is
	// past EOF. May return ErrFrameDiscarded for pipe-backed sources
	// asked to rewind past their retention window.
	GoTo(frame int) (bool, error)
	// LogProb returns the score of model modelID at the frame most
	// recently reached by GoTo.
	LogProb(modelID int) float32
	// EOFFrame returns the lowest frame known to be unavailable, or
	// NoEOF if none has been observed yet.
	EOFFrame() int
	// NumModels returns the number of acoustic models scored per
	// frame.
	NumModels() int
}
