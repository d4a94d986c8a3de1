// Command decode is the CLI driver for the decoder core, grounded in
// the teacher's cmd/transcript/main.go flag-based style: required
// model flags validated up front, a verbose mode printing per-word
// diagnostics to stderr, <score> lines to stdout. Two acoustic input
// modes are supported: a precomputed LNA stream (-lna), or a WAV file
// scored on the fly against a GMM inventory (-wav -gmm, with optional
// -speed perturbation), reusing the teacher's audio/feature packages
// for the latter. -segments batches recognize_segment over a file of
// frame ranges; -ref scores the accumulated hypothesis against a
// reference transcript.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ieee0824/noway-decoder/acoustics"
	"github.com/ieee0824/noway-decoder/audio"
	"github.com/ieee0824/noway-decoder/config"
	"github.com/ieee0824/noway-decoder/decode"
	"github.com/ieee0824/noway-decoder/feature"
	"github.com/ieee0824/noway-decoder/internal/gmmscore"
	"github.com/ieee0824/noway-decoder/search"
)

func main() {
	hmmPath := flag.String("hmm", "", "path to HMM inventory file")
	dictPath := flag.String("dict", "", "path to pronunciation dictionary")
	lmPath := flag.String("lm", "", "path to language model (ARPA format)")
	configPath := flag.String("config", "", "path to YAML toolbox config (optional)")

	lnaPath := flag.String("lna", "", "path to a precomputed LNA acoustic score stream")
	wavPath := flag.String("wav", "", "path to a WAV file to score against -gmm")
	gmmPath := flag.String("gmm", "", "path to a gob-encoded GMM inventory, required with -wav")
	speed := flag.Float64("speed", 1.0, "speed perturbation factor applied to -wav audio before scoring (1.0 = unchanged)")

	start := flag.Int("start", 0, "segment start frame")
	end := flag.Int("end", -1, "segment end frame (-1 = run to EOF)")
	segmentsPath := flag.String("segments", "", "path to a file of \"start end\" frame pairs for batch mode")
	retain := flag.Int("retain", 64, "frames retained for backward GoTo on an LNA stream")
	refPath := flag.String("ref", "", "path to a reference transcript (one word-per-line or whitespace-separated) to score word error rate against")
	verbose := flag.Bool("v", false, "verbose output")

	flag.Parse()

	if *hmmPath == "" || *dictPath == "" || *lmPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: decode -hmm HMM -dict DICT -lm LM (-lna SCORES | -wav AUDIO -gmm GMM)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var opts []decode.Option
	if *configPath != "" {
		tb, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, decode.WithExpanderConfig(tb.ToExpanderConfig()), decode.WithSearchConfig(tb.ToSearchConfig()))
	}

	d, err := decode.NewFromFiles(*hmmPath, *dictPath, *lmPath, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ac, err := openAcoustics(*lnaPath, *wavPath, *gmmPath, *retain, *speed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	segments := [][2]int{{*start, *end}}
	if *segmentsPath != "" {
		segments, err = loadSegments(*segmentsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := d.NewSearch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var reference []string
	if *refPath != "" {
		reference, err = loadReference(*refPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	var hypothesis []string
	exitCode := 0
	for _, seg := range segments {
		results, err := s.RecognizeSegment(ac, seg[0], seg[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: segment [%d,%d]: %v\n", seg[0], seg[1], err)
			exitCode = 1
			continue
		}
		if len(results) == 0 {
			fmt.Fprintf(os.Stderr, "segment [%d,%d]: no surviving hypothesis\n", seg[0], seg[1])
			continue
		}
		best := results[0]
		words := d.Words(best)
		hypothesis = append(hypothesis, words...)
		fmt.Printf("%.4f %d %s\n", best.LogProb, lastFrame(best), strings.Join(words, " "))
		if *verbose {
			for i, w := range words {
				fmt.Fprintf(os.Stderr, "  [%d] %s\n", best.Frames[i], w)
			}
		}
	}

	if reference != nil {
		wer := decode.WordErrorRate(hypothesis, reference)
		fmt.Fprintf(os.Stderr, "WER: %.4f\n", wer)
	}

	os.Exit(exitCode)
}

func loadReference(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(data)), nil
}

func lastFrame(r search.Result) int {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1]
}

func openAcoustics(lnaPath, wavPath, gmmPath string, retain int, speed float64) (acoustics.Acoustics, error) {
	switch {
	case lnaPath != "":
		f, err := os.Open(lnaPath)
		if err != nil {
			return nil, err
		}
		return acoustics.OpenLNA(f, retain)
	case wavPath != "" && gmmPath != "":
		samples, _, err := audio.ReadWAVFile(wavPath)
		if err != nil {
			return nil, err
		}
		if speed != 1.0 {
			samples = audio.SpeedPerturb(samples, speed)
		}
		gmmFile, err := os.Open(gmmPath)
		if err != nil {
			return nil, err
		}
		defer gmmFile.Close()
		inv, err := gmmscore.Load(gmmFile)
		if err != nil {
			return nil, err
		}
		feats, err := feature.Extract(samples, feature.DefaultConfig())
		if err != nil {
			return nil, err
		}
		return gmmscore.NewScorer(feats, inv), nil
	default:
		return nil, fmt.Errorf("must supply either -lna or both -wav and -gmm")
	}
}

func loadSegments(path string) ([][2]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var segs [][2]int
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"start end\"", lineNum)
		}
		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: start: %w", lineNum, err)
		}
		end, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: end: %w", lineNum, err)
		}
		segs = append(segs, [2]int{start, end})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}
