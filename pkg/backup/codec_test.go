package backup

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/typofix/pkg/dictionary"
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

// buildArchive hand-rolls a zip for decode edge cases
func buildArchive(t *testing.T, manifest *Manifest, extraFiles map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if manifest != nil {
		w, err := zw.Create("manifest.json")
		if err != nil {
			t.Fatal(err)
		}
		if err := json.NewEncoder(w).Encode(manifest); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range extraFiles {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// export -> clear -> import Replace restores exact membership
func TestRoundTrip(t *testing.T) {
	store := newTestStore(t, map[string][]string{"en": {"hello"}, "id": {"dunia"}})
	store.AddCustomWord("golang", "en")
	store.AddCustomWord("gopher", "en")
	store.AddCustomWord("kucing", "id")

	original := store.CustomWords()

	data, err := Export(store, "0.1.0")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := store.ClearCustomWords(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(store.CustomWords()) != 0 {
		t.Fatal("overlays should be empty before restore")
	}

	tally, err := Import(store, data, Replace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if tally.Added != 3 || tally.Duplicates != 0 || tally.Invalid != 0 || tally.Errors != 0 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
	if !reflect.DeepEqual(store.CustomWords(), original) {
		t.Errorf("Round trip lost words: got %v, want %v", store.CustomWords(), original)
	}
}

func TestMergeCountsDuplicates(t *testing.T) {
	store := newTestStore(t, map[string][]string{"en": {"hello"}})
	store.AddCustomWord("golang", "en")

	data, err := Export(store, "0.1.0")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	// merging over the same state changes nothing, everything is a dup
	tally, err := Import(store, data, Merge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if tally.Added != 0 || tally.Duplicates != 1 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
	if len(store.CustomWords()["en"]) != 1 {
		t.Error("Merge must not grow the overlay on duplicates")
	}
}

func TestNoWordsToExport(t *testing.T) {
	store := newTestStore(t, map[string][]string{"en": {"hello"}})

	if _, err := Export(store, "0.1.0"); !errors.Is(err, ErrNoWordsToExport) {
		t.Errorf("Expected ErrNoWordsToExport, got %v", err)
	}
}

func TestMissingManifest(t *testing.T) {
	data := buildArchive(t, nil, map[string]string{"en_custom.txt": "golang\n"})

	if _, err := Decode(data); !errors.Is(err, ErrMissingManifest) {
		t.Errorf("Expected ErrMissingManifest, got %v", err)
	}
}

func TestIncompatibleVersion(t *testing.T) {
	data := buildArchive(t, &Manifest{Version: 99, Timestamp: 1}, nil)

	_, err := Decode(data)
	var verr *IncompatibleVersionError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected IncompatibleVersionError, got %v", err)
	}
	if verr.BackupVersion != 99 || verr.CurrentVersion != FormatVersion {
		t.Errorf("Unexpected versions: %+v", verr)
	}

	// the import path surfaces the same failure untouched
	store := newTestStore(t, map[string][]string{"en": {"hello"}})
	if _, err := Import(store, data, Merge); !errors.As(err, &verr) {
		t.Errorf("Import should reject the archive: %v", err)
	}
}

func TestGarbageArchive(t *testing.T) {
	if _, err := Decode([]byte("not a zip")); err == nil {
		t.Error("Garbage bytes should not decode")
	}
}

// imported words re-run the live validation rules
func TestImportRevalidatesWords(t *testing.T) {
	manifest := &Manifest{
		Version:   FormatVersion,
		Timestamp: 1,
		Languages: []LanguageBackup{{
			LanguageCode: "en",
			WordCount:    4,
			Words:        []string{"good", "a", "BAD!", "hello"},
		}},
	}
	data := buildArchive(t, manifest, nil)

	store := newTestStore(t, map[string][]string{"en": {"hello"}})
	tally, err := Import(store, data, Merge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// good added, a and BAD! invalid, hello duplicates the base set
	if tally.Added != 1 || tally.Invalid != 2 || tally.Duplicates != 1 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
}

// unknown languages are tallied as errors, never fatal
func TestImportUnknownLanguage(t *testing.T) {
	manifest := &Manifest{
		Version:   FormatVersion,
		Timestamp: 1,
		Languages: []LanguageBackup{
			{LanguageCode: "xx", WordCount: 1, Words: []string{"mystery"}},
			{LanguageCode: "en", WordCount: 1, Words: []string{"good"}},
		},
	}
	data := buildArchive(t, manifest, nil)

	store := newTestStore(t, map[string][]string{"en": {"hello"}})
	tally, err := Import(store, data, Merge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if tally.Errors != 1 || tally.Added != 1 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
}

func TestEncodeDeterministicOrder(t *testing.T) {
	overlays := map[string][]string{
		"id": {"kucing", "anjing"},
		"en": {"zebra", "apple"},
	}
	data, err := Encode(overlays, "0.1.0")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	manifest, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(manifest.Languages) != 2 || manifest.Languages[0].LanguageCode != "en" {
		t.Errorf("Languages should be sorted, got %+v", manifest.Languages)
	}
	if !sortedStrings(manifest.Languages[0].Words) || !sortedStrings(manifest.Languages[1].Words) {
		t.Errorf("Words should be sorted: %+v", manifest.Languages)
	}
	if manifest.Languages[0].WordCount != 2 {
		t.Errorf("Word counts should mirror the lists, got %d", manifest.Languages[0].WordCount)
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}
