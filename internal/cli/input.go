// Package cli handles cmd line input for DBG and testing the correction pipeline in real-time
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/typofix/pkg/session"
	"github.com/charmbracelet/log"
)

// InputHandler feeds typed lines through a live correction session so
// the whole pipeline can be exercised from a terminal: each rune goes
// through AddCharacter, each space through the boundary decision.
type InputHandler struct {
	sess         *session.Session
	suggestLimit int
	maxWordLen   int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(sess *session.Session, limit, maxWordLen int) *InputHandler {
	return &InputHandler{
		sess:         sess,
		suggestLimit: limit,
		maxWordLen:   maxWordLen,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and replays it through the session a keystroke at a time.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("typofix CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type something and press Enter; ':undo' takes back the last correction (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":undo" {
			h.handleUndo()
			continue
		}
		if line == ":reset" {
			h.sess.Reset()
			log.Print("session reset")
			continue
		}
		h.handleLine(line)
	}
}

// handleLine replays a line through the session, word by word.
func (h *InputHandler) handleLine(line string) {
	for _, word := range strings.Fields(line) {
		if len(word) > h.maxWordLen {
			log.Errorf("Word too long: %s", word)
			continue
		}

		for _, r := range word {
			h.sess.AddCharacter(r)
		}

		start := time.Now()
		suggestions := h.sess.Suggestions(h.sess.Word(), h.suggestLimit)
		corrected, applied := h.sess.HandleSpace()
		elapsed := time.Since(start)

		log.Debugf("Took [ %v ] for word '%s'", elapsed, word)

		if applied {
			log.Printf("%s -> \033[38;5;75m%s\033[0m (auto-applied)", word, corrected)
		} else if buffered := h.sess.Word(); buffered != "" {
			// No silent correction; show what the strip would display.
			log.Printf("Kept '%s', %d suggestion(s):", buffered, len(suggestions))
			for i, s := range suggestions {
				clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
				log.Printf("%2d. %-30s (conf: %.2f, %s, %s)", i+1, clWord, s.Confidence, s.Source, s.Band())
			}
			// The terminal has no suggestion strip to tap, so commit
			// the typed word as-is like an explicit pick would.
			h.sess.CommitWord(buffered)
		} else {
			log.Printf("'%s' committed unchanged", word)
		}
	}
}

func (h *InputHandler) handleUndo() {
	rec, ok := h.sess.HandleBackspace()
	if !ok {
		log.Warn("Nothing to undo")
		return
	}
	log.Printf("Undo: '%s' restores to '%s'", rec.Corrected, rec.Original)
}
