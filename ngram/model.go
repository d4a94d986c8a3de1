// Package ngram implements the back-off n-gram language model (C5):
// conditional log-probabilities with back-off, and a weighted
// multi-model mixture via logadd (spec.md §6). Adapted from the
// teacher's language package, generalized from string-keyed n-grams
// to int word ids so it can implement the abstract
// `log_prob(context_ids[], word_id)` contract spec.md §6 specifies,
// while keeping a string vocabulary for ARPA loading and CLI
// diagnostics.
package ngram

import "github.com/ieee0824/noway-decoder/internal/mathutil"

type entry struct {
	logProb    float64
	logBackoff float64
}

// Model is a single back-off n-gram language model.
type Model struct {
	Order int

	words []string
	ids   map[string]int

	unigrams map[int]entry
	bigrams  map[[2]int]entry
	trigrams map[[3]int]entry
}

// New creates an empty model of the given order (2 = bigram, 3 = trigram).
func New(order int) *Model {
	return &Model{
		Order:    order,
		ids:      make(map[string]int),
		unigrams: make(map[int]entry),
		bigrams:  make(map[[2]int]entry),
		trigrams: make(map[[3]int]entry),
	}
}

// internID returns the model-internal id for word, creating one if
// word has never been seen before.
func (m *Model) internID(word string) int {
	if id, ok := m.ids[word]; ok {
		return id
	}
	id := len(m.words)
	m.ids[word] = id
	m.words = append(m.words, word)
	return id
}

// WordID resolves a word against this model's internal vocabulary,
// usable as the lmWordID callback for vocab.BuildLexToLM.
func (m *Model) WordID(word string) (int, bool) {
	id, ok := m.ids[word]
	return id, ok
}

// Word returns the string for an internal id.
func (m *Model) Word(id int) string {
	if id < 0 || id >= len(m.words) {
		return ""
	}
	return m.words[id]
}

// Vocab returns every word known to this model's unigram table.
func (m *Model) Vocab() []string {
	words := make([]string, 0, len(m.unigrams))
	for id := range m.unigrams {
		words = append(words, m.Word(id))
	}
	return words
}

// LogProb returns the log probability of word given its context,
// using back-off when the exact n-gram is unseen (spec.md §6). This
// is the abstract contract signature; contextIDs and wordID are this
// model's own internal ids (resolve strings first with WordID).
func (m *Model) LogProb(contextIDs []int, wordID int) float64 {
	if m.Order >= 3 && len(contextIDs) >= 2 {
		key := [3]int{contextIDs[len(contextIDs)-2], contextIDs[len(contextIDs)-1], wordID}
		if e, ok := m.trigrams[key]; ok {
			return e.logProb
		}
		biKey := [2]int{contextIDs[len(contextIDs)-2], contextIDs[len(contextIDs)-1]}
		if e, ok := m.bigrams[biKey]; ok {
			return e.logBackoff + m.logProbBigram(contextIDs[len(contextIDs)-1], wordID)
		}
	}
	if m.Order >= 2 && len(contextIDs) >= 1 {
		return m.logProbBigram(contextIDs[len(contextIDs)-1], wordID)
	}
	return m.logProbUnigram(wordID)
}

func (m *Model) logProbBigram(prev, word int) float64 {
	key := [2]int{prev, word}
	if e, ok := m.bigrams[key]; ok {
		return e.logProb
	}
	if e, ok := m.unigrams[prev]; ok {
		return e.logBackoff + m.logProbUnigram(word)
	}
	return m.logProbUnigram(word)
}

func (m *Model) logProbUnigram(word int) float64 {
	if e, ok := m.unigrams[word]; ok {
		return e.logProb
	}
	return mathutil.LogZero
}

// LogProbWords is a string-keyed convenience wrapper over LogProb,
// matching the teacher's language.NGramModel.LogProb signature.
// Unknown words resolve to LogZero, same as the teacher.
func (m *Model) LogProbWords(history []string, word string) float64 {
	ctx := make([]int, 0, len(history))
	for _, w := range history {
		if id, ok := m.ids[w]; ok {
			ctx = append(ctx, id)
		} else {
			return mathutil.LogZero
		}
	}
	id, ok := m.ids[word]
	if !ok {
		return mathutil.LogZero
	}
	return m.LogProb(ctx, id)
}

// SentenceLogProb returns the total log probability of a sentence,
// bracketing it with <s> and </s> as the teacher's
// language.NGramModel.SentenceLogProb does.
func (m *Model) SentenceLogProb(words []string) float64 {
	total := 0.0
	history := []string{"<s>"}
	for _, w := range words {
		total += m.LogProbWords(history, w)
		history = append(history, w)
	}
	total += m.LogProbWords(history, "</s>")
	return total
}
