/*
Package session coordinates correction for one active input field.

A Session buffers the word being typed, decides at each boundary
whether a correction is safe to apply silently, keeps a bounded context
of committed words and remembers at most one applied correction for
undo. Everything here runs synchronously on the caller's input-dispatch
thread and only touches already-loaded memory; a session must never be
shared between input fields, and a focus change calls Reset.
*/
package session

import (
	"strings"

	"github.com/bastiangx/typofix/internal/utils"
	"github.com/bastiangx/typofix/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the tunable decision parameters. The auto-apply bar and
// ambiguity margin are heuristics meant for recalibration against real
// typing data, not a fixed contract.
type Config struct {
	AutoApplyConfidence float64
	AmbiguityMargin     float64
	ContextSize         int
	MaxSuggestions      int
}

// DefaultConfig returns the shipped decision parameters.
func DefaultConfig() Config {
	return Config{
		AutoApplyConfidence: 0.8,
		AmbiguityMargin:     0.05,
		ContextSize:         10,
		MaxSuggestions:      suggest.DefaultLimit,
	}
}

// Undo records one applied correction so a single backspace can take
// it back.
type Undo struct {
	Original       string
	Corrected      string
	WasAutoApplied bool
}

// Session is the per-input-field correction coordinator.
type Session struct {
	cfg     Config
	ranker  *suggest.Ranker
	buf     []rune
	context []string
	undo    *Undo
}

// New creates a session over the given ranker. Zero config fields fall
// back to the defaults.
func New(ranker *suggest.Ranker, cfg Config) *Session {
	def := DefaultConfig()
	if cfg.AutoApplyConfidence <= 0 {
		cfg.AutoApplyConfidence = def.AutoApplyConfidence
	}
	if cfg.AmbiguityMargin <= 0 {
		cfg.AmbiguityMargin = def.AmbiguityMargin
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = def.ContextSize
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	return &Session{cfg: cfg, ranker: ranker}
}

// AddCharacter appends a letter or apostrophe to the word buffer.
// Anything else is ignored; boundary characters are routed to
// HandleSpace by the key dispatcher, not here.
func (s *Session) AddCharacter(ch rune) bool {
	if !utils.IsWordRune(ch) {
		return false
	}
	s.buf = append(s.buf, ch)
	return true
}

// Word returns the current buffer contents.
func (s *Session) Word() string {
	return string(s.buf)
}

// HandleSpace evaluates the buffered word at a boundary. It returns
// the corrected word when one was applied silently, otherwise an empty
// string. When suggestions exist but none clears the auto-apply rule,
// the buffer stays intact so the suggestion strip can keep showing it.
func (s *Session) HandleSpace() (string, bool) {
	word := string(s.buf)
	if word == "" {
		return "", false
	}

	if utils.ShouldIgnoreToken(word) {
		s.commit(word)
		return "", false
	}

	// Two candidates: the top one plus whatever is closest behind it,
	// for the ambiguity check.
	suggestions := s.ranker.Rank(word, s.contextCopy(), 2)
	if len(suggestions) == 0 {
		// Already correct, or nothing plausible to offer.
		s.commit(strings.ToLower(word))
		return "", false
	}

	if !s.shouldAutoApply(suggestions) {
		return "", false
	}

	top := suggestions[0]
	s.undo = &Undo{Original: word, Corrected: top.Word, WasAutoApplied: true}
	s.context = s.pushContext(top.Word)
	s.buf = s.buf[:0]
	log.Debugf("Auto-applied %q -> %q (conf %.2f, %s)", word, top.Word, top.Confidence, top.Source)
	return top.Word, true
}

// shouldAutoApply is deliberately conservative: silent replacement is
// limited to deterministic contractions and unambiguous high-confidence
// matches.
func (s *Session) shouldAutoApply(suggestions []suggest.Suggestion) bool {
	top := suggestions[0]
	if top.Source == suggest.SourceContraction {
		return true
	}
	if top.Confidence <= s.cfg.AutoApplyConfidence {
		return false
	}
	if len(suggestions) > 1 && top.Confidence-suggestions[1].Confidence <= s.cfg.AmbiguityMargin {
		return false
	}
	return true
}

// HandleBackspace deletes the last buffered character, or, with an
// empty buffer and a pending auto-applied correction, signals that
// undo is available and hands back the record. The caller owns the
// actual text replacement.
func (s *Session) HandleBackspace() (Undo, bool) {
	if len(s.buf) > 0 {
		s.buf = s.buf[:len(s.buf)-1]
		return Undo{}, false
	}
	if s.undo != nil && s.undo.WasAutoApplied {
		rec := *s.undo
		s.undo = nil
		return rec, true
	}
	return Undo{}, false
}

// CommitWord records an explicit commit, e.g. the user tapped a
// suggestion. Clears the buffer and any pending undo.
func (s *Session) CommitWord(word string) {
	if word == "" {
		return
	}
	s.commit(word)
	s.undo = nil
}

// Suggestions recomputes the ranked list live for UI polling. It never
// caches and is independent of the silent-apply path.
func (s *Session) Suggestions(word string, limit int) []suggest.Suggestion {
	if limit <= 0 {
		limit = s.cfg.MaxSuggestions
	}
	return s.ranker.Rank(word, s.contextCopy(), limit)
}

// Context returns a copy of the committed-word window, oldest first.
func (s *Session) Context() []string {
	return s.contextCopy()
}

// Reset clears buffer, context and undo memory. Called on every
// input-field focus change.
func (s *Session) Reset() {
	s.buf = s.buf[:0]
	s.context = nil
	s.undo = nil
}

func (s *Session) commit(word string) {
	s.context = s.pushContext(word)
	s.buf = s.buf[:0]
}

func (s *Session) pushContext(word string) []string {
	ctx := append(s.context, word)
	if len(ctx) > s.cfg.ContextSize {
		ctx = ctx[len(ctx)-s.cfg.ContextSize:]
	}
	return ctx
}

func (s *Session) contextCopy() []string {
	if len(s.context) == 0 {
		return nil
	}
	out := make([]string, len(s.context))
	copy(out, s.context)
	return out
}
