package hmm

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Noway HMM text format (one line per state/transition), e.g.:
//
//	hmm k
//	state 0 12
//	trans 0 0 -0.693
//	trans 0 1 -0.693
//	state 1 13
//	trans 1 1 -0.693
//	trans 1 -1 -0.693
//	duration 1 -0.1 -1.2 -3.0
//
// "state <idx> <emission-model-id>" declares an emitting state.
// "trans <from> <to> <logprob>" declares an outgoing transition;
// to == -1 (hmm.Exit) leaves the unit.
// "duration <state> <logprob>..." declares d(k) for k = 1..N.
// A new "hmm" line or the end of input ends the current HMM; blank
// lines and "#" comment lines are skipped.

// Load parses the Noway-style HMM text format into an Inventory.
func Load(r io.Reader) (*Inventory, error) {
	inv := NewInventory()
	scanner := bufio.NewScanner(r)

	var cur *HMM
	flush := func() {
		if cur != nil {
			inv.Add(cur)
			cur = nil
		}
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "hmm":
			flush()
			if len(fields) < 2 {
				return nil, errors.Errorf("line %d: hmm missing name", lineNum)
			}
			cur = &HMM{Name: fields[1]}
		case "state":
			if cur == nil || len(fields) < 3 {
				return nil, errors.Errorf("line %d: state outside hmm or malformed", lineNum)
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: state index", lineNum)
			}
			model, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: emission model", lineNum)
			}
			for len(cur.States) <= idx {
				cur.States = append(cur.States, State{EmissionModel: -1})
			}
			cur.States[idx].EmissionModel = model
		case "trans":
			if cur == nil || len(fields) < 4 {
				return nil, errors.Errorf("line %d: trans outside hmm or malformed", lineNum)
			}
			from, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: trans from", lineNum)
			}
			to, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: trans to", lineNum)
			}
			lp, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: trans logprob", lineNum)
			}
			for len(cur.States) <= from {
				cur.States = append(cur.States, State{EmissionModel: -1})
			}
			cur.States[from].Transitions = append(cur.States[from].Transitions, Transition{Target: to, LogProb: lp})
		case "duration":
			if cur == nil || len(fields) < 3 {
				return nil, errors.Errorf("line %d: duration outside hmm or malformed", lineNum)
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: duration state", lineNum)
			}
			d := &Duration{LogProbs: make([]float64, 0, len(fields)-2)}
			for _, f := range fields[2:] {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: duration value", lineNum)
				}
				d.LogProbs = append(d.LogProbs, v)
			}
			for len(cur.States) <= idx {
				cur.States = append(cur.States, State{EmissionModel: -1})
			}
			cur.States[idx].Duration = d
		default:
			return nil, errors.Errorf("line %d: unknown directive %q", lineNum, fields[0])
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan hmm file")
	}
	return inv, nil
}

// LoadFile opens path and parses it as an HMM inventory. Failures here
// are OpenErrors: fatal at initialization per spec.md §7.
func LoadFile(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open hmm inventory")
	}
	defer f.Close()
	inv, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, "parse hmm inventory")
	}
	return inv, nil
}

// gobInventory is the serializable shape of an Inventory, used for the
// binary cache form (mirrors the teacher's acoustic.Model gob
// round-trip in acoustic/model.go).
type gobInventory struct {
	HMMs map[string]*HMM
}

// SaveCache writes a gob-encoded binary cache of the inventory.
func (inv *Inventory) SaveCache(w io.Writer) error {
	g := gobInventory{HMMs: inv.byName}
	return errors.Wrap(gob.NewEncoder(w).Encode(g), "encode hmm cache")
}

// LoadCache reads a gob-encoded binary cache produced by SaveCache.
func LoadCache(r io.Reader) (*Inventory, error) {
	var g gobInventory
	if err := gob.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(err, "decode hmm cache")
	}
	if g.HMMs == nil {
		g.HMMs = make(map[string]*HMM)
	}
	return &Inventory{byName: g.HMMs}, nil
}
