// Package vocab implements the bijection between word ids and
// strings (C4), plus the lex->LM id mapping used by the n-gram
// component (spec.md §3).
package vocab

// UnknownID is the sentinel LM-side id for a word the n-gram model
// does not know about.
const UnknownID = -1

// Vocabulary is an immutable, read-only word id <-> string bijection.
type Vocabulary struct {
	words []string
	ids   map[string]int
}

// NewVocabulary builds a Vocabulary from a list of words in id order.
// Duplicate words keep their first occurrence's id.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{
		words: make([]string, 0, len(words)),
		ids:   make(map[string]int, len(words)),
	}
	for _, w := range words {
		if _, ok := v.ids[w]; ok {
			continue
		}
		v.ids[w] = len(v.words)
		v.words = append(v.words, w)
	}
	return v
}

// Word returns the string for a word id, or "" if out of range.
func (v *Vocabulary) Word(id int) string {
	if id < 0 || id >= len(v.words) {
		return ""
	}
	return v.words[id]
}

// ID returns the word id for a string, and whether it was found.
func (v *Vocabulary) ID(word string) (int, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words returns all words, in id order. Callers must not mutate.
func (v *Vocabulary) Words() []string { return v.words }

// LexToLM is a per-vocabulary-word vector giving the LM-side id for
// each decoder word id, with vocab.UnknownID standing in for words the
// LM has never seen (spec.md §3, "Lex->LM mapping").
type LexToLM struct {
	lmID []int
}

// BuildLexToLM resolves every word in vocabulary against the LM
// lookup function lmWordID, which should return (id, true) for known
// words.
func BuildLexToLM(vocabulary *Vocabulary, lmWordID func(word string) (int, bool)) *LexToLM {
	m := &LexToLM{lmID: make([]int, vocabulary.Len())}
	for id, w := range vocabulary.Words() {
		if lm, ok := lmWordID(w); ok {
			m.lmID[id] = lm
		} else {
			m.lmID[id] = UnknownID
		}
	}
	return m
}

// LMID returns the LM-side id for a decoder word id, or UnknownID.
func (m *LexToLM) LMID(wordID int) int {
	if wordID < 0 || wordID >= len(m.lmID) {
		return UnknownID
	}
	return m.lmID[wordID]
}

// Unknown reports whether wordID has no LM-side mapping.
func (m *LexToLM) Unknown(wordID int) bool {
	return m.LMID(wordID) == UnknownID
}
