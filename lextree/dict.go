package lextree

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ieee0824/noway-decoder/vocab"
)

// LoadDictionary reads a pronunciation dictionary in the teacher's
// tab-separated style (lexicon.Load in lexicon/dict.go), simplified to
// two fields since the decoder core has no use for the teacher's kana
// reading column: word<TAB>phone1 phone2 phone3 ... One line per
// pronunciation; a word repeated on several lines gets one vocabulary
// id and one Pronunciation entry per line (homograph/alternate-
// pronunciation support, spec.md §3).
func LoadDictionary(r io.Reader) (*vocab.Vocabulary, []Pronunciation, error) {
	scanner := bufio.NewScanner(r)
	var words []string
	ids := make(map[string]int)
	var prons []Pronunciation

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 {
			return nil, nil, errors.Errorf("line %d: expected word<TAB>phones", lineNum)
		}
		word := parts[0]
		phones := strings.Fields(parts[1])
		if len(phones) == 0 {
			return nil, nil, errors.Errorf("line %d: empty pronunciation", lineNum)
		}

		id, ok := ids[word]
		if !ok {
			id = len(words)
			ids[word] = id
			words = append(words, word)
		}
		prons = append(prons, Pronunciation{WordID: id, HMMNames: phones})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "scan dictionary")
	}
	return vocab.NewVocabulary(words), prons, nil
}

// LoadDictionaryFile opens path and parses it as a pronunciation
// dictionary.
func LoadDictionaryFile(path string) (*vocab.Vocabulary, []Pronunciation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open dictionary")
	}
	defer f.Close()
	return LoadDictionary(f)
}
