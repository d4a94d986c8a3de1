package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultToolboxMatchesPackageDefaults(t *testing.T) {
	tb := DefaultToolbox()
	sc := tb.ToSearchConfig()
	if err := sc.Validate(); err != nil {
		t.Fatalf("default search config should validate: %v", err)
	}
	if tb.Expander.TokenLimit != 1000 {
		t.Errorf("Expander.TokenLimit = %d, want 1000", tb.Expander.TokenLimit)
	}
	if tb.Search.HypoLimit != 500 {
		t.Errorf("Search.HypoLimit = %d, want 500", tb.Search.HypoLimit)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolbox.yaml")
	const yamlText = `
paths:
  hmm: models/acoustic.hmm
  dict: models/dict.txt
  lm: models/lm.arpa
search:
  hypo_limit: 50
  lm_scale: 2.5
`
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tb, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tb.Paths.HMM != "models/acoustic.hmm" {
		t.Errorf("Paths.HMM = %q", tb.Paths.HMM)
	}
	if tb.Search.HypoLimit != 50 {
		t.Errorf("Search.HypoLimit = %d, want 50 (overridden)", tb.Search.HypoLimit)
	}
	if tb.Search.LMScale != 2.5 {
		t.Errorf("Search.LMScale = %v, want 2.5 (overridden)", tb.Search.LMScale)
	}
	// WordLimit was not in the YAML; it should keep its default.
	if tb.Search.WordLimit != 30 {
		t.Errorf("Search.WordLimit = %d, want 30 (default preserved)", tb.Search.WordLimit)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolbox.yaml")

	tb := DefaultToolbox()
	tb.Paths.HMM = "a.hmm"
	tb.Search.WordBoundary = []string{"sil"}
	if err := tb.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Paths.HMM != "a.hmm" {
		t.Errorf("Paths.HMM = %q, want a.hmm", loaded.Paths.HMM)
	}
	if len(loaded.Search.WordBoundary) != 1 || loaded.Search.WordBoundary[0] != "sil" {
		t.Errorf("Search.WordBoundary = %v, want [sil]", loaded.Search.WordBoundary)
	}
}
