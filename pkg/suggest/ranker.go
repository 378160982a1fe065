/*
Package suggest turns a typed token into a ranked, capped list of
correction candidates.

Contraction triggers short-circuit everything at a fixed confidence.
Otherwise candidates come from the store's prefix buckets, are scored
by the bounded keyboard-weighted matcher, and get a small boost when
their language matches the words the user committed recently. Tokens
that are already known words produce no suggestions at all.
*/
package suggest

import (
	"sort"
	"strings"

	"github.com/bastiangx/typofix/pkg/dictionary"
	"github.com/bastiangx/typofix/pkg/match"
)

// Source tells the UI where a suggestion came from.
type Source int

const (
	SourceDictionary Source = iota
	SourceContraction
	SourcePersonal
)

func (s Source) String() string {
	switch s {
	case SourceContraction:
		return "contraction"
	case SourcePersonal:
		return "personal"
	default:
		return "dictionary"
	}
}

// Suggestion is one ranked correction candidate.
type Suggestion struct {
	Word       string
	Confidence float64
	Source     Source
	Distance   int
}

// Band is the display-only confidence classification. Ranking always
// uses the raw confidence.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// Band classifies a suggestion for display: high above 0.8, medium
// above 0.5, low otherwise.
func (s Suggestion) Band() Band {
	switch {
	case s.Confidence > 0.8:
		return BandHigh
	case s.Confidence > 0.5:
		return BandMedium
	default:
		return BandLow
	}
}

const (
	// DefaultLimit caps suggestion lists when the caller passes none.
	DefaultLimit = 5

	contractionConfidence = 0.95
	contextBoost          = 0.1
)

// Ranker scores tokens against the word store.
type Ranker struct {
	store        *dictionary.Store
	contractions *Contractions
	matcher      *match.Matcher
}

// NewRanker wires a ranker. A nil matcher gets the QWERTY default,
// nil contractions an empty table.
func NewRanker(store *dictionary.Store, contractions *Contractions, matcher *match.Matcher) *Ranker {
	if matcher == nil {
		matcher = match.NewMatcher(nil, match.DefaultBound)
	}
	if contractions == nil {
		contractions = NewContractions()
	}
	return &Ranker{store: store, contractions: contractions, matcher: matcher}
}

// Rank produces the capped, confidence-ordered candidate list for a
// token. recent is the caller's committed-word context, used only for
// the language affinity boost.
func (r *Ranker) Rank(token string, recent []string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}
	lower := strings.ToLower(token)
	if lower == "" {
		return nil
	}

	if expansion, ok := r.contractions.Lookup(lower); ok {
		return []Suggestion{{
			Word:       expansion,
			Confidence: contractionConfidence,
			Source:     SourceContraction,
			Distance:   match.Distance(lower, strings.ToLower(expansion)),
		}}
	}

	// Correct words are never corrected.
	if r.store.Contains(lower) {
		return nil
	}

	ctxLangs := r.contextLanguages(recent)

	best := r.score(r.store.PrefixLookup(lower), lower, ctxLangs)
	if len(best) == 0 {
		// A typo in the second letter moves the word out of its
		// two-rune bucket ("wrld" vs "world"). Fall back to the wider
		// first-rune subtree only when the cheap bucket came up empty.
		runes := []rune(lower)
		if len(runes) > 1 {
			best = r.score(r.store.PrefixLookup(string(runes[:1])), lower, ctxLangs)
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[j], out[i])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// score runs every candidate through the bounded matcher, keyed by
// word so the same word in several languages keeps its best scoring.
func (r *Ranker) score(candidates []dictionary.Entry, lower string, ctxLangs map[string]bool) map[string]Suggestion {
	best := make(map[string]Suggestion)
	for _, entry := range candidates {
		if entry.Word == lower {
			continue
		}
		res, ok := r.matcher.Match(lower, entry.Word)
		if !ok {
			continue
		}

		conf := res.Similarity
		if ctxLangs[entry.Lang] {
			conf += contextBoost
			if conf > 1.0 {
				conf = 1.0
			}
		}
		source := SourceDictionary
		if entry.Custom {
			source = SourcePersonal
		}

		cand := Suggestion{Word: entry.Word, Confidence: conf, Source: source, Distance: res.Distance}
		if prev, seen := best[entry.Word]; !seen || less(prev, cand) {
			best[entry.Word] = cand
		}
	}
	return best
}

// less orders a below b: lower confidence first, then larger distance,
// then reverse lexical. Sorting descending through it yields confidence
// desc, distance asc, word asc.
func less(a, b Suggestion) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence < b.Confidence
	}
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Word > b.Word
}

// contextLanguages marks every language containing at least one of the
// recently committed words. Membership is resolved live so overlay
// mutations between keystrokes are reflected immediately.
func (r *Ranker) contextLanguages(recent []string) map[string]bool {
	if len(recent) == 0 {
		return nil
	}
	langs := make(map[string]bool)
	for _, word := range recent {
		for _, lang := range r.store.LanguagesOf(word) {
			langs[lang] = true
		}
	}
	return langs
}
