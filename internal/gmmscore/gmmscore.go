// Package gmmscore adapts the teacher's GMM-HMM acoustic scorer
// (acoustic.Gaussian/GMM, acoustic/gmm.go) into a concrete
// acoustics.Acoustics source: a dense, emission-model-id-indexed table
// of Gaussian mixtures scored lazily per frame against a fixed matrix
// of feature vectors. The teacher keyed its GMMs by Phoneme in a
// PhonemeHMM; here they are keyed by the same int ids hmm.Load assigns
// to State.EmissionModel, since the decoder core no longer has any
// notion of phoneme identity past the HMM inventory.
package gmmscore

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/ieee0824/noway-decoder/acoustic"
	"github.com/ieee0824/noway-decoder/acoustics"
)

// Inventory is a dense table of Gaussian mixture emission models,
// indexed by the same ids hmm.State.EmissionModel refers to.
type Inventory struct {
	models []*acoustic.GMM
}

// NewInventory wraps a pre-built slice of GMMs, one per emission
// model id.
func NewInventory(models []*acoustic.GMM) *Inventory {
	return &Inventory{models: models}
}

// Get returns the GMM for a model id.
func (inv *Inventory) Get(id int) (*acoustic.GMM, bool) {
	if id < 0 || id >= len(inv.models) {
		return nil, false
	}
	return inv.models[id], true
}

// Len returns the number of emission models in the inventory.
func (inv *Inventory) Len() int { return len(inv.models) }

// serializedInventory and serializedGMM mirror the teacher's
// serializedModel/serializedGMMState/serializedGaussian gob shape
// (acoustic/model.go), but index by dense id rather than by phoneme
// name.
type serializedInventory struct {
	Models []serializedGMM
}

type serializedGMM struct {
	Dim        int
	Components []serializedGaussian
}

type serializedGaussian struct {
	Mean      []float64
	Variance  []float64
	LogWeight float64
}

// Save gob-encodes the inventory, matching the teacher's
// AcousticModel.Save round-trip style.
func (inv *Inventory) Save(w io.Writer) error {
	si := serializedInventory{Models: make([]serializedGMM, len(inv.models))}
	for i, m := range inv.models {
		sg := serializedGMM{Dim: m.Dim}
		for _, c := range m.Components {
			sg.Components = append(sg.Components, serializedGaussian{
				Mean:      c.Mean,
				Variance:  c.Variance,
				LogWeight: c.LogWeight,
			})
		}
		si.Models[i] = sg
	}
	return errors.Wrap(gob.NewEncoder(w).Encode(si), "encode gmm inventory")
}

// Load decodes an Inventory produced by Save, re-deriving every
// Gaussian's precomputed normalization constants.
func Load(r io.Reader) (*Inventory, error) {
	var si serializedInventory
	if err := gob.NewDecoder(r).Decode(&si); err != nil {
		return nil, errors.Wrap(err, "decode gmm inventory")
	}
	models := make([]*acoustic.GMM, len(si.Models))
	for i, sg := range si.Models {
		gmm := &acoustic.GMM{Dim: sg.Dim}
		for _, sc := range sg.Components {
			g := acoustic.Gaussian{Mean: sc.Mean, Variance: sc.Variance, LogWeight: sc.LogWeight}
			g.Precompute()
			gmm.Components = append(gmm.Components, g)
		}
		gmm.PrecomputeSoA()
		models[i] = gmm
	}
	return &Inventory{models: models}, nil
}

// Scorer implements acoustics.Acoustics over a fixed matrix of
// feature vectors (e.g. MFCCs), scoring against inv lazily: a
// model's log-probability is computed at most once per frame,
// cached until GoTo moves to a different frame.
type Scorer struct {
	features [][]float64
	inv      *Inventory
	cur      int
	cache    []float32
	cacheSet []bool
}

// NewScorer builds a Scorer over features, scoring against inv.
func NewScorer(features [][]float64, inv *Inventory) *Scorer {
	return &Scorer{
		features: features,
		inv:      inv,
		cur:      -1,
		cache:    make([]float32, inv.Len()),
		cacheSet: make([]bool, inv.Len()),
	}
}

// GoTo implements acoustics.Acoustics.
func (s *Scorer) GoTo(frame int) (bool, error) {
	if frame < 0 || frame >= len(s.features) {
		s.cur = -1
		return false, nil
	}
	if frame != s.cur {
		for i := range s.cacheSet {
			s.cacheSet[i] = false
		}
		s.cur = frame
	}
	return true, nil
}

// LogProb implements acoustics.Acoustics.
func (s *Scorer) LogProb(modelID int) float32 {
	if s.cur < 0 {
		return 0
	}
	model, ok := s.inv.Get(modelID)
	if !ok {
		return 0
	}
	if s.cacheSet[modelID] {
		return s.cache[modelID]
	}
	lp := float32(model.LogProb(s.features[s.cur]))
	s.cache[modelID] = lp
	s.cacheSet[modelID] = true
	return lp
}

// EOFFrame implements acoustics.Acoustics.
func (s *Scorer) EOFFrame() int { return len(s.features) }

// NumModels implements acoustics.Acoustics.
func (s *Scorer) NumModels() int { return s.inv.Len() }

var _ acoustics.Acoustics = (*Scorer)(nil)
