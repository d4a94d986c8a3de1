package ngram

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadARPA reads a language model in ARPA format (adapted from the
// teacher's language.LoadARPA). Log probabilities in ARPA files are
// base-10; they are converted to natural log here so the rest of the
// decoder can add log-domain scores without per-call conversion.
func LoadARPA(r io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(r)
	m := New(1) // updated once the header's max order is known

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "\\data\\" {
			break
		}
	}

	maxOrder := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ngram ") {
			parts := strings.SplitN(line[6:], "=", 2)
			if len(parts) == 2 {
				order, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
				if order > maxOrder {
					maxOrder = order
				}
			}
			continue
		}
		break
	}
	m.Order = maxOrder

	for {
		line := strings.TrimSpace(scanner.Text())
		if line == "\\end\\" {
			break
		}
		if strings.HasPrefix(line, "\\") && strings.HasSuffix(line, ":") {
			orderStr := strings.TrimSuffix(strings.TrimPrefix(line, "\\"), "-grams:")
			order, err := strconv.Atoi(orderStr)
			if err != nil {
				if !scanner.Scan() {
					break
				}
				continue
			}
			for scanner.Scan() {
				entryLine := strings.TrimSpace(scanner.Text())
				if entryLine == "" {
					continue
				}
				if strings.HasPrefix(entryLine, "\\") {
					break
				}
				if err := parseNGramLine(m, order, entryLine); err != nil {
					return nil, errors.Wrapf(err, "parse n-gram line %q", entryLine)
				}
			}
			continue
		}
		if !scanner.Scan() {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan arpa file")
	}
	return m, nil
}

// LoadARPAFile opens path and parses it as an ARPA language model.
func LoadARPAFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open arpa language model")
	}
	defer f.Close()
	return LoadARPA(f)
}

func parseNGramLine(m *Model, order int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < order+1 {
		return errors.Errorf("too few fields for %d-gram: %q", order, line)
	}

	logProb, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return errors.Wrap(err, "parse log prob")
	}
	logProb *= math.Ln10

	words := fields[1 : order+1]
	ids := make([]int, order)
	for i, w := range words {
		ids[i] = m.internID(w)
	}

	var logBackoff float64
	if len(fields) > order+1 {
		bo, err := strconv.ParseFloat(fields[order+1], 64)
		if err != nil {
			return errors.Wrap(err, "parse backoff")
		}
		logBackoff = bo * math.Ln10
	}

	e := entry{logProb: logProb, logBackoff: logBackoff}

	switch order {
	case 1:
		m.unigrams[ids[0]] = e
	case 2:
		m.bigrams[[2]int{ids[0], ids[1]}] = e
	case 3:
		m.trigrams[[3]int{ids[0], ids[1], ids[2]}] = e
	}
	return nil
}
