package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeBase drops a base dictionary file into the test data dir
func writeBase(t *testing.T, dir, lang string, words ...string) {
	t.Helper()
	content := strings.Join(words, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, lang+".txt"), []byte(content), 0644); err != nil {
		t.Fatalf("writing base file: %v", err)
	}
}

func newTestStore(t *testing.T, words ...string) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeBase(t, dir, "en", words...)
	store := NewStore(dir)
	results := store.Load([]string{"en"})
	if results["en"] != nil {
		t.Fatalf("loading en: %v", results["en"])
	}
	return store, dir
}

func TestLoadIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeBase(t, dir, "en", "hello", "world")

	store := NewStore(dir)
	results := store.Load([]string{"en", "xx"})

	if results["en"] != nil {
		t.Errorf("en should load: %v", results["en"])
	}
	if results["xx"] == nil {
		t.Error("xx has no base file and should fail")
	}
	// the failed language must not become active
	langs := store.Languages()
	if len(langs) != 1 || langs[0] != "en" {
		t.Errorf("Expected active languages [en], got %v", langs)
	}
}

func TestContains(t *testing.T) {
	store, _ := newTestStore(t, "hello", "world")

	if !store.Contains("hello") {
		t.Error("hello should be known")
	}
	if !store.Contains("HELLO") {
		t.Error("lookup must be case-insensitive")
	}
	if store.Contains("nope") {
		t.Error("nope should be unknown")
	}
	if store.Contains("hello", "xx") {
		t.Error("unknown language should match nothing")
	}
}

func TestAddCustomWord(t *testing.T) {
	store, _ := newTestStore(t, "hello")

	testCases := []struct {
		word     string
		expected AddOutcome
	}{
		{"golang", AddSuccess},
		{"golang", AddAlreadyExists}, // idempotence
		{"hello", AddAlreadyExists},  // duplicate check spans the base set
		{"a", AddInvalidFormat},      // too short
		{"Upper", AddInvalidFormat},
		{"abc1", AddInvalidFormat},
		{"don't", AddSuccess},
		{"self-made", AddSuccess},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			res := store.AddCustomWord(tc.word, "en")
			if res.Outcome != tc.expected {
				t.Errorf("Expected %v, got %v (err: %v)", tc.expected, res.Outcome, res.Err)
			}
		})
	}

	if got := len(store.CustomWords()["en"]); got != 3 {
		t.Errorf("Expected 3 custom words, got %d", got)
	}

	res := store.AddCustomWord("word", "xx")
	if res.Outcome != AddFailed || res.Err == nil {
		t.Errorf("Unloaded language should yield AddFailed with error, got %v", res.Outcome)
	}
}

func TestOverlayPersistence(t *testing.T) {
	store, dir := newTestStore(t, "hello")
	overlay := filepath.Join(dir, "en_custom.txt")

	store.AddCustomWord("golang", "en")
	if _, err := os.Stat(overlay); err != nil {
		t.Fatalf("overlay file should exist after add: %v", err)
	}

	// a fresh store must see the persisted word
	second := NewStore(dir)
	if err := second.Load([]string{"en"})["en"]; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !second.Contains("golang") {
		t.Error("persisted custom word should survive a reload")
	}
	if !second.IsCustom("golang", "en") {
		t.Error("reloaded word should still be custom")
	}

	// removing the last word deletes the overlay file
	if !store.RemoveCustomWord("golang", "en") {
		t.Fatal("remove should succeed")
	}
	if _, err := os.Stat(overlay); !os.IsNotExist(err) {
		t.Error("empty overlay file should be deleted")
	}
	if store.RemoveCustomWord("golang", "en") {
		t.Error("removing an absent word should return false")
	}
}

func TestPrefixLookup(t *testing.T) {
	store, _ := newTestStore(t, "hello", "help", "world")

	entries := store.PrefixLookup("he")
	words := make(map[string]bool)
	for _, e := range entries {
		words[e.Word] = true
	}
	if !words["hello"] || !words["help"] {
		t.Errorf("Expected hello and help in bucket, got %v", words)
	}
	if words["world"] {
		t.Error("world does not share the prefix")
	}

	// a mutation invalidates the index; the next lookup sees the word
	store.AddCustomWord("hexagon", "en")
	entries = store.PrefixLookup("he")
	found := false
	for _, e := range entries {
		if e.Word == "hexagon" {
			if !e.Custom {
				t.Error("hexagon should be flagged custom")
			}
			found = true
		}
	}
	if !found {
		t.Error("index should pick up the added word after invalidation")
	}
}

func TestPrefixLookupSingleRune(t *testing.T) {
	store, _ := newTestStore(t, "ox", "oak", "pine")

	entries := store.PrefixLookup("o")
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries under 'o', got %d", len(entries))
	}
	if store.PrefixLookup("") != nil {
		t.Error("empty prefix should return nothing")
	}
}

func TestClearCustomWords(t *testing.T) {
	store, dir := newTestStore(t, "hello")
	store.AddCustomWord("golang", "en")
	store.AddCustomWord("gopher", "en")

	if err := store.ClearCustomWords(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(store.CustomWords()) != 0 {
		t.Error("overlays should be empty after clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "en_custom.txt")); !os.IsNotExist(err) {
		t.Error("overlay files should be gone after clear")
	}
}
