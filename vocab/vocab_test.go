package vocab

import "testing"

func TestVocabularyBijection(t *testing.T) {
	v := NewVocabulary([]string{"the", "cat", "sat", "the"})
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (duplicate dropped)", v.Len())
	}
	id, ok := v.ID("cat")
	if !ok {
		t.Fatal("cat not found")
	}
	if v.Word(id) != "cat" {
		t.Errorf("Word(%d) = %q, want cat", id, v.Word(id))
	}
	if _, ok := v.ID("dog"); ok {
		t.Error("ID(dog) should report not found")
	}
	if v.Word(999) != "" {
		t.Error("Word(out of range) should return empty string")
	}
}

func TestBuildLexToLM(t *testing.T) {
	v := NewVocabulary([]string{"the", "cat", "zyzzyva"})
	lm := map[string]int{"the": 5, "cat": 9}
	lookup := func(w string) (int, bool) {
		id, ok := lm[w]
		return id, ok
	}
	m := BuildLexToLM(v, lookup)

	theID, _ := v.ID("the")
	catID, _ := v.ID("cat")
	rareID, _ := v.ID("zyzzyva")

	if got := m.LMID(theID); got != 5 {
		t.Errorf("LMID(the) = %d, want 5", got)
	}
	if got := m.LMID(catID); got != 9 {
		t.Errorf("LMID(cat) = %d, want 9", got)
	}
	if !m.Unknown(rareID) {
		t.Error("zyzzyva should be Unknown")
	}
	if !m.Unknown(1000) {
		t.Error("out-of-range word id should be Unknown")
	}
}
