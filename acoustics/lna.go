package acoustics

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// lnaMagic identifies an LNA stream: per-frame, per-model float32
// log-likelihoods (spec.md glossary, "LNA").
const lnaMagic = uint32(0x414e4c01) // "LNA" + version 1

// LNA reads a binary LNA stream. It supports pipe-backed sources: a
// bounded ring of the last `retain` frames can be revisited with
// GoTo; anything older returns ErrFrameDiscarded, matching spec.md
// §6's "may throw when frame < first_retained_frame" contract.
type LNA struct {
	r         *bufio.Reader
	numModels int

	retain int
	ring   [][]float32 // ring[frame % retain]
	have   int         // frames read so far
	eof    int         // EOFFrame() value
	cur    int         // currently positioned frame, -1 if none
}

// OpenLNA reads the LNA header from r and returns a reader retaining
// the last `retain` frames for backward GoTo (retain must be >= 1).
func OpenLNA(r io.Reader, retain int) (*LNA, error) {
	if retain < 1 {
		retain = 1
	}
	br := bufio.NewReader(r)

	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "read lna magic")
	}
	if magic != lnaMagic {
		return nil, errors.Errorf("lna: bad magic %#x", magic)
	}
	var numModels uint32
	if err := binary.Read(br, binary.LittleEndian, &numModels); err != nil {
		return nil, errors.Wrap(err, "read lna model count")
	}

	return &LNA{
		r:         br,
		numModels: int(numModels),
		retain:    retain,
		ring:      make([][]float32, retain),
		eof:       NoEOF,
		cur:       -1,
	}, nil
}

// WriteLNAHeader writes the header OpenLNA expects.
func WriteLNAHeader(w io.Writer, numModels int) error {
	if err := binary.Write(w, binary.LittleEndian, lnaMagic); err != nil {
		return errors.Wrap(err, "write lna magic")
	}
	return errors.Wrap(binary.Write(w, binary.LittleEndian, uint32(numModels)), "write lna model count")
}

// WriteLNAFrame writes one frame's scores in the format OpenLNA
// reads.
func WriteLNAFrame(w io.Writer, scores []float32) error {
	return errors.Wrap(binary.Write(w, binary.LittleEndian, scores), "write lna frame")
}

func (a *LNA) readFrame() ([]float32, bool) {
	row := make([]float32, a.numModels)
	for i := range row {
		var bits uint32
		if err := binary.Read(a.r, binary.LittleEndian, &bits); err != nil {
			return nil, false
		}
		row[i] = math.Float32frombits(bits)
	}
	return row, true
}

// GoTo implements Acoustics.
func (a *LNA) GoTo(frame int) (bool, error) {
	if frame < 0 {
		return false, nil
	}
	if a.eof != NoEOF && frame >= a.eof {
		return false, nil
	}
	if frame < a.have-a.retain {
		return false, ErrFrameDiscarded
	}
	for frame >= a.have {
		row, ok := a.readFrame()
		if !ok {
			a.eof = a.have
			return false, nil
		}
		a.ring[a.have%a.retain] = row
		a.have++
	}
	a.cur = frame
	return true, nil
}

// LogProb implements Acoustics.
func (a *LNA) LogProb(modelID int) float32 {
	if a.cur < 0 {
		return 0
	}
	row := a.ring[a.cur%a.retain]
	if modelID < 0 || modelID >= len(row) {
		return 0
	}
	return row[modelID]
}

// EOFFrame implements Acoustics.
func (a *LNA) EOFFrame() int { return a.eof }

// NumModels implements Acoustics.
func (a *LNA) NumModels() int { return a.numModels }
