package ngram

import (
	"math"

	"github.com/ieee0824/noway-decoder/internal/mathutil"
)

// Weighted pairs one loaded Model with its mixture weight.
type Weighted struct {
	Model  *Model
	Weight float64
}

// Mixture combines several weighted n-gram models into one effective
// log-probability via log(sum_i w_i * exp(log_prob_i)), computed
// stably with mathutil.LogAdd (spec.md §6, "Multi-model mixture").
// Each component model keeps its own internal word-id space; Mixture
// resolves words by string so callers don't have to reconcile ids
// across models.
type Mixture struct {
	components []Weighted
}

// NewMixture builds a mixture from weighted component models. A
// single-component mixture with weight 1 behaves like a bare Model.
func NewMixture(components ...Weighted) *Mixture {
	return &Mixture{components: components}
}

// LogProbWords returns the mixture log-probability of word given
// history, string-keyed like Model.LogProbWords.
func (mx *Mixture) LogProbWords(history []string, word string) float64 {
	if len(mx.components) == 0 {
		return mathutil.LogZero
	}
	total := mathutil.LogZero
	first := true
	for _, c := range mx.components {
		lp := c.Model.LogProbWords(history, word)
		weighted := lp + logWeight(c.Weight)
		if first {
			total = weighted
			first = false
			continue
		}
		total = mathutil.LogAdd(total, weighted)
	}
	return total
}

// LogProb implements the abstract `log_prob(context_ids[], word_id)`
// contract (spec.md §6) that search.LanguageModel requires. Ids are
// taken from the first component's vocabulary and resolved to strings
// before querying every component, since component models are loaded
// independently and do not share an id space; an id unknown to a given
// component resolves to LogZero for that component's term, same as
// LogProbWords.
func (mx *Mixture) LogProb(contextIDs []int, wordID int) float64 {
	if len(mx.components) == 0 {
		return mathutil.LogZero
	}
	primary := mx.components[0].Model
	history := make([]string, len(contextIDs))
	for i, id := range contextIDs {
		history[i] = primary.Word(id)
	}
	return mx.LogProbWords(history, primary.Word(wordID))
}

func logWeight(w float64) float64 {
	if w <= 0 {
		return mathutil.LogZero
	}
	return math.Log(w)
}
