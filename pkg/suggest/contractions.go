package suggest

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Contractions maps informal triggers to their fixed expansions,
// e.g. "dont" -> "don't". Triggers match case-insensitively and always
// win over fuzzy candidates.
type Contractions struct {
	table map[string]string
}

// NewContractions returns an empty table.
func NewContractions() *Contractions {
	return &Contractions{table: make(map[string]string)}
}

// DefaultContractions seeds the common English set so the pipeline
// works without an assets file.
func DefaultContractions() *Contractions {
	c := NewContractions()
	seed := map[string]string{
		"dont":     "don't",
		"cant":     "can't",
		"wont":     "won't",
		"isnt":     "isn't",
		"arent":    "aren't",
		"wasnt":    "wasn't",
		"werent":   "weren't",
		"doesnt":   "doesn't",
		"didnt":    "didn't",
		"couldnt":  "couldn't",
		"wouldnt":  "wouldn't",
		"shouldnt": "shouldn't",
		"havent":   "haven't",
		"hasnt":    "hasn't",
		"hadnt":    "hadn't",
		"im":       "I'm",
		"ive":      "I've",
		"ill":      "I'll",
		"id":       "I'd",
		"youre":    "you're",
		"youve":    "you've",
		"youll":    "you'll",
		"theyre":   "they're",
		"theyve":   "they've",
		"theyll":   "they'll",
		"weve":     "we've",
		"thats":    "that's",
		"whats":    "what's",
		"whos":     "who's",
		"hes":      "he's",
		"shes":     "she's",
		"its":      "it's",
		"lets":     "let's",
	}
	for trigger, exp := range seed {
		c.table[trigger] = exp
	}
	return c
}

// LoadContractions reads a trigger:expansion file, one pair per line.
// Blank lines and lines starting with '#' are skipped.
func LoadContractions(path string) (*Contractions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c := NewContractions()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		trigger, expansion, found := strings.Cut(line, ":")
		if !found || trigger == "" || expansion == "" {
			log.Warnf("Skipping malformed contraction at %s:%d: %q", path, lineNo, line)
			continue
		}
		c.Add(trigger, expansion)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Debugf("Loaded %d contractions from %s", len(c.table), path)
	return c, nil
}

// Add registers one trigger:expansion pair.
func (c *Contractions) Add(trigger, expansion string) {
	c.table[strings.ToLower(strings.TrimSpace(trigger))] = strings.TrimSpace(expansion)
}

// Lookup resolves a token to its expansion, case-insensitively.
func (c *Contractions) Lookup(token string) (string, bool) {
	if c == nil {
		return "", false
	}
	exp, ok := c.table[strings.ToLower(token)]
	return exp, ok
}

// Len reports the number of loaded pairs.
func (c *Contractions) Len() int {
	return len(c.table)
}
