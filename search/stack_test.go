package search

import (
	"testing"

	"github.com/ieee0824/noway-decoder/hypopath"
)

func TestHypoStackInsertTracksBest(t *testing.T) {
	arena := hypopath.NewArena()
	st := newHypoStack(arena)

	p1 := arena.New(1, 0, hypopath.Guard, 0, 0)
	p2 := arena.New(2, 0, hypopath.Guard, 0, 0)

	st.Insert(Hypo{Frame: 1, LogProb: -5, Path: p1})
	if st.BestLogProb() != -5 || st.BestIndex() != 0 {
		t.Fatalf("after first insert: best=%v idx=%d, want -5, 0", st.BestLogProb(), st.BestIndex())
	}
	st.Insert(Hypo{Frame: 1, LogProb: -2, Path: p2})
	if st.BestLogProb() != -2 || st.BestIndex() != 1 {
		t.Fatalf("after second (better) insert: best=%v idx=%d, want -2, 1", st.BestLogProb(), st.BestIndex())
	}
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
}

func TestHypoStackRemoveDetachesAndRecomputesBest(t *testing.T) {
	arena := hypopath.NewArena()
	st := newHypoStack(arena)
	p1 := arena.New(1, 0, hypopath.Guard, 0, 0)
	p2 := arena.New(2, 0, hypopath.Guard, 0, 0)
	st.Insert(Hypo{LogProb: -2, Path: p1})
	st.Insert(Hypo{LogProb: -5, Path: p2})

	st.RemoveAt(0) // drop the best
	if st.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", st.Len())
	}
	if st.BestLogProb() != -5 {
		t.Fatalf("BestLogProb() after removing the best = %v, want -5", st.BestLogProb())
	}
	if arena.Refcount(p1) != 0 {
		t.Errorf("removed hypo's path refcount = %d, want 0", arena.Refcount(p1))
	}
}

func TestHypoStackSortStable(t *testing.T) {
	arena := hypopath.NewArena()
	st := newHypoStack(arena)
	for _, lp := range []float64{-1, -3, -1, -2} {
		st.Insert(Hypo{LogProb: lp, Path: arena.New(0, 0, hypopath.Guard, 0, 0)})
	}
	st.Sort()
	want := []float64{-1, -1, -2, -3}
	for i, w := range want {
		if st.At(i).LogProb != w {
			t.Errorf("At(%d).LogProb = %v, want %v", i, st.At(i).LogProb, w)
		}
	}
	if !st.Sorted() {
		t.Error("Sorted() should report true after Sort")
	}
}

func TestHypoStackPruneKeepsBest(t *testing.T) {
	arena := hypopath.NewArena()
	st := newHypoStack(arena)
	paths := make([]int, 4)
	for i, lp := range []float64{-4, -1, -3, -2} {
		paths[i] = arena.New(0, 0, hypopath.Guard, 0, 0)
		st.Insert(Hypo{LogProb: lp, Path: paths[i]})
	}
	st.Prune(2)
	if st.Len() != 2 {
		t.Fatalf("Len() after Prune(2) = %d, want 2", st.Len())
	}
	if st.At(0).LogProb != -1 || st.At(1).LogProb != -2 {
		t.Fatalf("survivors = %+v, want [-1 -2]", []float64{st.At(0).LogProb, st.At(1).LogProb})
	}
	if arena.Live() != 2 {
		t.Errorf("arena.Live() = %d after pruning, want 2 (pruned paths detached)", arena.Live())
	}
}

func TestHypoStackClearDetachesEverything(t *testing.T) {
	arena := hypopath.NewArena()
	st := newHypoStack(arena)
	st.Insert(Hypo{LogProb: -1, Path: arena.New(0, 0, hypopath.Guard, 0, 0)})
	st.Insert(Hypo{LogProb: -2, Path: arena.New(0, 0, hypopath.Guard, 0, 0)})
	st.Clear()
	if !st.Empty() {
		t.Fatal("stack should be empty after Clear")
	}
	if arena.Live() != 0 {
		t.Errorf("arena.Live() after Clear = %d, want 0", arena.Live())
	}
}
