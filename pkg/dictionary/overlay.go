package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/typofix/internal/utils"
)

// Dictionary assets are plain UTF-8, one lowercase word per line,
// sorted, no blanks or duplicates. The overlay file holds only
// user-added words and is disjoint from the base file.

func basePath(dataDir, lang string) string {
	return filepath.Join(dataDir, lang+".txt")
}

func overlayPath(dataDir, lang string) string {
	return filepath.Join(dataDir, lang+"_custom.txt")
}

// readWordFile loads a word-per-line file into a set.
func readWordFile(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return words, nil
}

// readOptionalWordFile is readWordFile but a missing file yields an
// empty set, since overlays only exist once the user adds a word.
func readOptionalWordFile(path string) (map[string]struct{}, error) {
	if !utils.FileExists(path) {
		return make(map[string]struct{}), nil
	}
	return readWordFile(path)
}

// writeOverlay rewrites the overlay file from the given sorted words,
// atomically. An empty overlay removes the file instead.
func writeOverlay(path string, words []string) error {
	if len(words) == 0 {
		if utils.FileExists(path) {
			return os.Remove(path)
		}
		return nil
	}

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(w)
		sb.WriteByte('\n')
	}
	return utils.AtomicWriteFile(path, []byte(sb.String()))
}
