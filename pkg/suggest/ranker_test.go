package suggest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/typofix/pkg/dictionary"
	"github.com/bastiangx/typofix/pkg/match"
)

func newTestStore(t *testing.T, langs map[string][]string) *dictionary.Store {
	t.Helper()
	dir := t.TempDir()
	order := make([]string, 0, len(langs))
	for lang, words := range langs {
		content := strings.Join(words, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, lang+".txt"), []byte(content), 0644); err != nil {
			t.Fatalf("writing base file: %v", err)
		}
		order = append(order, lang)
	}
	store := dictionary.NewStore(dir)
	for lang, err := range store.Load(order) {
		if err != nil {
			t.Fatalf("loading %s: %v", lang, err)
		}
	}
	return store
}

func newTestRanker(t *testing.T, words ...string) *Ranker {
	t.Helper()
	store := newTestStore(t, map[string][]string{"en": words})
	return NewRanker(store, DefaultContractions(), match.NewMatcher(match.QWERTYCost, 2))
}

// correct words are never "corrected"
func TestKnownWordsYieldNothing(t *testing.T) {
	r := newTestRanker(t, "hello", "world")

	for _, w := range []string{"hello", "world", "Hello", "WORLD"} {
		if got := r.Rank(w, nil, 5); len(got) != 0 {
			t.Errorf("Rank(%q) should be empty, got %v", w, got)
		}
	}
}

func TestContractionShortCircuit(t *testing.T) {
	r := newTestRanker(t, "dont", "donut")

	got := r.Rank("dont", nil, 5)
	if len(got) != 1 {
		t.Fatalf("Expected exactly one contraction suggestion, got %d", len(got))
	}
	s := got[0]
	if s.Word != "don't" || s.Source != SourceContraction {
		t.Errorf("Expected don't from contractions, got %+v", s)
	}
	if s.Confidence != 0.95 {
		t.Errorf("Contraction confidence should be fixed at 0.95, got %v", s.Confidence)
	}
}

func TestSortedAndCapped(t *testing.T) {
	r := newTestRanker(t, "cab", "cap", "can", "car", "cart", "care", "cast")

	got := r.Rank("cat", nil, 0)
	if len(got) != DefaultLimit {
		t.Fatalf("Expected default cap of %d, got %d", DefaultLimit, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("Confidence not non-increasing at %d: %v > %v", i, got[i].Confidence, got[i-1].Confidence)
		}
	}
	for _, s := range got {
		if d := match.Distance("cat", s.Word); d > 2 {
			t.Errorf("Suggestion %q has true distance %d", s.Word, d)
		}
	}

	if got := r.Rank("cat", nil, 3); len(got) != 3 {
		t.Errorf("Expected 3 with explicit limit, got %d", len(got))
	}
}

// second-letter typos fall back to the first-rune subtree
func TestSecondLetterTypoFallback(t *testing.T) {
	r := newTestRanker(t, "world", "wrist")

	got := r.Rank("wrld", nil, 5)
	if len(got) == 0 {
		t.Fatal("Expected world despite the bucket mismatch")
	}
	if got[0].Word != "world" {
		t.Errorf("Expected world first, got %q", got[0].Word)
	}
	if got[0].Confidence <= 0.5 {
		t.Errorf("Expected confidence above 0.5, got %v", got[0].Confidence)
	}
}

func TestPersonalSource(t *testing.T) {
	r := newTestRanker(t, "hello")
	res := r.store.AddCustomWord("gopher", "en")
	if res.Outcome != dictionary.AddSuccess {
		t.Fatalf("add: %v", res.Outcome)
	}

	got := r.Rank("gophr", nil, 5)
	if len(got) == 0 || got[0].Word != "gopher" {
		t.Fatalf("Expected gopher, got %v", got)
	}
	if got[0].Source != SourcePersonal {
		t.Errorf("Custom word should rank as personal, got %v", got[0].Source)
	}
}

// matching recent-context language earns a small boost
func TestContextLanguageBoost(t *testing.T) {
	store := newTestStore(t, map[string][]string{
		"en": {"hello"},
		"id": {"dunia", "selamat"},
	})
	r := NewRanker(store, nil, nil)

	plain := r.Rank("duniaa", nil, 5)
	boosted := r.Rank("duniaa", []string{"selamat"}, 5)

	if len(plain) == 0 || len(boosted) == 0 {
		t.Fatal("Expected dunia in both rankings")
	}
	diff := boosted[0].Confidence - plain[0].Confidence
	if diff < 0.099 || diff > 0.101 {
		t.Errorf("Expected +0.1 context boost, got %v", diff)
	}
}

func TestConfidenceBands(t *testing.T) {
	s := Suggestion{Confidence: 0.95}
	if s.Band() != BandHigh {
		t.Errorf("0.95 should band high, got %v", s.Band())
	}
	if (Suggestion{Confidence: 0.6}).Band() != BandMedium {
		t.Error("0.6 should band medium")
	}
	if (Suggestion{Confidence: 0.3}).Band() != BandLow {
		t.Error("0.3 should band low")
	}
}

func TestLoadContractionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contractions.txt")
	content := "# comment\ndont:don't\nbad line\nids:id's\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadContractions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 pairs (malformed line skipped), got %d", c.Len())
	}
	if exp, ok := c.Lookup("DONT"); !ok || exp != "don't" {
		t.Errorf("Lookup should be case-insensitive, got %q ok=%v", exp, ok)
	}
}
