package acoustic

import (
	"math"
	"testing"
)

func TestGaussianLogProb(t *testing.T) {
	g := Gaussian{
		Mean:      []float64{0.0},
		Variance:  []float64{1.0},
		LogWeight: 0.0,
	}
	g.Precompute()

	// Standard normal at x=0: log(1/sqrt(2π)) ≈ -0.9189
	lp := g.LogProb([]float64{0.0})
	expected := -0.5 * math.Log(2*math.Pi)
	if math.Abs(lp-expected) > 1e-6 {
		t.Errorf("LogProb(0) = %f, want %f", lp, expected)
	}

	lp5 := g.LogProb([]float64{5.0})
	if lp5 >= lp {
		t.Errorf("LogProb(5) = %f >= LogProb(0) = %f", lp5, lp)
	}
}

func TestGMMLogProb(t *testing.T) {
	gmm := NewGMMWithParams(
		[][]float64{{0.0}, {5.0}},
		[][]float64{{1.0}, {1.0}},
		[]float64{math.Log(0.5), math.Log(0.5)},
	)

	lp0 := gmm.LogProb([]float64{0.0})
	lp5 := gmm.LogProb([]float64{5.0})
	lp25 := gmm.LogProb([]float64{2.5})

	if math.IsNaN(lp0) || math.IsInf(lp0, 0) {
		t.Errorf("LogProb(0) = %f (not finite)", lp0)
	}
	if math.IsNaN(lp5) || math.IsInf(lp5, 0) {
		t.Errorf("LogProb(5) = %f (not finite)", lp5)
	}
	if math.Abs(lp0-lp5) > 0.1 {
		t.Errorf("LogProb(0)=%f and LogProb(5)=%f should be similar (symmetric mixture)", lp0, lp5)
	}
	if lp25 > lp0 {
		t.Errorf("LogProb(2.5)=%f > LogProb(0)=%f", lp25, lp0)
	}
}

func TestGMMLogProbBatchMatchesLogProb(t *testing.T) {
	gmm := NewGMM(3, 5)
	xs := [][]float64{
		{0.1, 0.2, 0.3, 0.4, 0.5},
		{-1, -2, -3, -4, -5},
		{2, 2, 2, 2, 2},
	}
	dst := make([]float64, len(xs))
	gmm.LogProbBatch(xs, dst)
	for i, x := range xs {
		want := gmm.LogProb(x)
		if dst[i] != want {
			t.Errorf("LogProbBatch[%d] = %v, want %v", i, dst[i], want)
		}
	}
}
