/*
Package dictionary owns the per-language word sets behind the
correction pipeline.

Each active language carries an immutable base set loaded from a plain
text asset and a mutable custom overlay persisted to its own file.
Lookups run lock-free against already-loaded memory; mutations are
mutually exclusive, flush the overlay synchronously and invalidate the
shared prefix index, which is rebuilt wholesale on the next lookup.
*/
package dictionary

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/typofix/internal/utils"
	"github.com/charmbracelet/log"
)

// AddOutcome is the closed set of results for a custom word addition.
type AddOutcome int

const (
	AddSuccess AddOutcome = iota
	AddAlreadyExists
	AddInvalidFormat
	AddFailed
)

func (o AddOutcome) String() string {
	switch o {
	case AddSuccess:
		return "success"
	case AddAlreadyExists:
		return "already_exists"
	case AddInvalidFormat:
		return "invalid_format"
	default:
		return "error"
	}
}

// AddResult carries the outcome plus the underlying error for AddFailed.
type AddResult struct {
	Outcome AddOutcome
	Err     error
}

// Entry is one word as seen by the prefix index.
type Entry struct {
	Word   string
	Lang   string
	Custom bool
}

type langSet struct {
	base   map[string]struct{}
	custom map[string]struct{}
}

// Store holds the base+custom word sets for every active language.
type Store struct {
	mu      sync.RWMutex
	langs   map[string]*langSet
	order   []string
	dataDir string

	index prefixIndex
}

// NewStore creates an empty store rooted at the given data directory.
// Base files are expected as <lang>.txt, overlays as <lang>_custom.txt.
func NewStore(dataDir string) *Store {
	return &Store{
		langs:   make(map[string]*langSet),
		dataDir: dataDir,
	}
}

// Load reads the base asset and custom overlay for each language,
// concurrently, and merges them into memory. One language failing
// never blocks the others; the per-language error map reports which
// made it.
func (s *Store) Load(languages []string) map[string]error {
	results := make(map[string]error, len(languages))
	var resMu sync.Mutex
	var wg sync.WaitGroup

	for _, lang := range languages {
		wg.Add(1)
		go func(lang string) {
			defer wg.Done()
			err := s.loadLanguage(lang)
			resMu.Lock()
			results[lang] = err
			resMu.Unlock()
			if err != nil {
				log.Errorf("Loading dictionary %q: %v", lang, err)
			}
		}(lang)
	}
	wg.Wait()

	s.index.invalidate()
	return results
}

func (s *Store) loadLanguage(lang string) error {
	base, err := readWordFile(basePath(s.dataDir, lang))
	if err != nil {
		return fmt.Errorf("base dictionary: %w", err)
	}

	// A missing overlay just means the user never added a word.
	custom, err := readOptionalWordFile(overlayPath(s.dataDir, lang))
	if err != nil {
		return fmt.Errorf("custom overlay: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.langs[lang]; !exists {
		s.order = append(s.order, lang)
	}
	s.langs[lang] = &langSet{base: base, custom: custom}
	log.Debugf("Loaded %q: %d base words, %d custom words", lang, len(base), len(custom))
	return nil
}

// Languages returns the active language ids in load order.
func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Contains reports whether the word is known, across base and custom
// sets. With no languages given, every active language is checked.
func (s *Store) Contains(word string, languages ...string) bool {
	lower := strings.ToLower(word)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(languages) == 0 {
		languages = s.order
	}
	for _, lang := range languages {
		set, ok := s.langs[lang]
		if !ok {
			continue
		}
		if _, ok := set.base[lower]; ok {
			return true
		}
		if _, ok := set.custom[lower]; ok {
			return true
		}
	}
	return false
}

// LanguagesOf returns every active language that knows the word.
func (s *Store) LanguagesOf(word string) []string {
	lower := strings.ToLower(word)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, lang := range s.order {
		set := s.langs[lang]
		if _, ok := set.base[lower]; ok {
			out = append(out, lang)
			continue
		}
		if _, ok := set.custom[lower]; ok {
			out = append(out, lang)
		}
	}
	return out
}

// IsCustom reports whether the word came from the user overlay.
func (s *Store) IsCustom(word, lang string) bool {
	lower := strings.ToLower(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.langs[lang]
	if !ok {
		return false
	}
	_, ok = set.custom[lower]
	return ok
}

// AddCustomWord validates and adds a word to the language overlay,
// persisting synchronously. A write failure keeps the word usable in
// memory for the rest of the session and reports AddFailed.
func (s *Store) AddCustomWord(word, lang string) AddResult {
	lower := strings.ToLower(strings.TrimSpace(word))
	if !utils.IsValidCustomWord(lower) {
		return AddResult{Outcome: AddInvalidFormat}
	}

	s.mu.Lock()
	set, ok := s.langs[lang]
	if !ok {
		s.mu.Unlock()
		return AddResult{Outcome: AddFailed, Err: fmt.Errorf("language %q is not loaded", lang)}
	}
	if _, dup := set.base[lower]; dup {
		s.mu.Unlock()
		return AddResult{Outcome: AddAlreadyExists}
	}
	if _, dup := set.custom[lower]; dup {
		s.mu.Unlock()
		return AddResult{Outcome: AddAlreadyExists}
	}
	set.custom[lower] = struct{}{}
	words := sortedWords(set.custom)
	s.mu.Unlock()

	s.index.invalidate()

	if err := writeOverlay(overlayPath(s.dataDir, lang), words); err != nil {
		log.Errorf("Persisting overlay for %q: %v", lang, err)
		return AddResult{Outcome: AddFailed, Err: err}
	}
	return AddResult{Outcome: AddSuccess}
}

// RemoveCustomWord drops a word from the overlay and rewrites the
// overlay file, deleting it once empty. Returns false when the word
// was not a custom entry.
func (s *Store) RemoveCustomWord(word, lang string) bool {
	lower := strings.ToLower(strings.TrimSpace(word))

	s.mu.Lock()
	set, ok := s.langs[lang]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if _, present := set.custom[lower]; !present {
		s.mu.Unlock()
		return false
	}
	delete(set.custom, lower)
	words := sortedWords(set.custom)
	s.mu.Unlock()

	s.index.invalidate()

	if err := writeOverlay(overlayPath(s.dataDir, lang), words); err != nil {
		log.Errorf("Rewriting overlay for %q: %v", lang, err)
	}
	return true
}

// CustomWords returns a sorted copy of every non-empty overlay,
// keyed by language.
func (s *Store) CustomWords() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]string)
	for _, lang := range s.order {
		set := s.langs[lang]
		if len(set.custom) == 0 {
			continue
		}
		out[lang] = sortedWords(set.custom)
	}
	return out
}

// ClearCustomWords empties every overlay, in memory and on disk.
// Used by Replace-mode imports.
func (s *Store) ClearCustomWords() error {
	s.mu.Lock()
	var langs []string
	for _, lang := range s.order {
		set := s.langs[lang]
		if len(set.custom) > 0 {
			set.custom = make(map[string]struct{})
			langs = append(langs, lang)
		}
	}
	s.mu.Unlock()

	s.index.invalidate()

	var firstErr error
	for _, lang := range langs {
		if err := writeOverlay(overlayPath(s.dataDir, lang), nil); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PrefixLookup returns every known word sharing the prefix bucket of
// the given token: its first two runes, or the whole token when it is
// a single rune. The index is rebuilt here on first use after an
// invalidation.
func (s *Store) PrefixLookup(prefix string) []Entry {
	key := prefixKey(strings.ToLower(prefix))
	if key == "" {
		return nil
	}
	return s.index.lookup(key, s.snapshotEntries)
}

// snapshotEntries flattens the current word sets for an index rebuild.
func (s *Store) snapshotEntries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []Entry
	for _, lang := range s.order {
		set := s.langs[lang]
		for w := range set.base {
			entries = append(entries, Entry{Word: w, Lang: lang})
		}
		for w := range set.custom {
			entries = append(entries, Entry{Word: w, Lang: lang, Custom: true})
		}
	}
	return entries
}

// Stats reports word counts per language, for logging and the IPC
// info command.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int)
	total := 0
	for _, lang := range s.order {
		set := s.langs[lang]
		n := len(set.base) + len(set.custom)
		stats[lang] = n
		total += n
	}
	stats["total"] = total
	return stats
}

func sortedWords(set map[string]struct{}) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func prefixKey(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	if len(runes) == 1 {
		return string(runes)
	}
	return string(runes[:2])
}
