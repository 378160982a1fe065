/*
Package backup serializes custom-word overlays into a portable archive
and restores them.

The container is a zip holding a mandatory manifest.json plus one
<lang>_custom.txt per language with a non-empty overlay, words sorted
for determinism. Decoding rejects archives without a manifest or with a
manifest version above the supported one; no forward-compat attempt is
made. Imported words are re-validated through the same rules as a live
add, so corrupted or hand-edited entries are tallied, not applied.
*/
package backup

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bastiangx/typofix/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// FormatVersion is the highest manifest version this build understands.
const FormatVersion = 1

const manifestName = "manifest.json"

var (
	// ErrNoWordsToExport means every overlay was empty; no archive is
	// produced rather than an empty one.
	ErrNoWordsToExport = errors.New("no custom words to export")

	// ErrMissingManifest means the archive is not a recognizable backup.
	ErrMissingManifest = errors.New("backup archive is missing " + manifestName)
)

// IncompatibleVersionError reports a manifest produced by a newer
// format than this build supports.
type IncompatibleVersionError struct {
	BackupVersion  int
	CurrentVersion int
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("backup format version %d is newer than supported version %d",
		e.BackupVersion, e.CurrentVersion)
}

// LanguageBackup is the per-language slice of a manifest.
type LanguageBackup struct {
	LanguageCode string   `json:"languageCode"`
	WordCount    int      `json:"wordCount"`
	Words        []string `json:"words"`
}

// Manifest describes one backup archive.
type Manifest struct {
	Version    int              `json:"version"`
	Timestamp  int64            `json:"timestamp"`
	AppVersion string           `json:"appVersion"`
	Languages  []LanguageBackup `json:"languages"`
}

// ImportMode selects how an archive is applied over existing overlays.
type ImportMode int

const (
	// Merge applies the archive over existing words; duplicates are
	// counted and skipped, nothing is removed.
	Merge ImportMode = iota
	// Replace clears all overlays first, then merges. Destructive;
	// callers gate it behind their own confirmation.
	Replace
)

func (m ImportMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// ImportTally counts per-word outcomes of one import batch.
type ImportTally struct {
	Added      int
	Duplicates int
	Invalid    int
	Errors     int
}

// Encode builds the archive bytes from per-language overlays. Word
// order inside the manifest and the text files is sorted so equal
// overlays always produce equal archives.
func Encode(overlays map[string][]string, appVersion string) ([]byte, error) {
	manifest := Manifest{
		Version:    FormatVersion,
		Timestamp:  time.Now().Unix(),
		AppVersion: appVersion,
	}

	langs := make([]string, 0, len(overlays))
	for lang, words := range overlays {
		if len(words) > 0 {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return nil, ErrNoWordsToExport
	}
	sort.Strings(langs)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, lang := range langs {
		words := append([]string(nil), overlays[lang]...)
		sort.Strings(words)
		manifest.Languages = append(manifest.Languages, LanguageBackup{
			LanguageCode: lang,
			WordCount:    len(words),
			Words:        words,
		})

		w, err := zw.Create(lang + "_custom.txt")
		if err != nil {
			return nil, fmt.Errorf("creating %s entry: %w", lang, err)
		}
		for _, word := range words {
			if _, err := io.WriteString(w, word+"\n"); err != nil {
				return nil, fmt.Errorf("writing %s entry: %w", lang, err)
			}
		}
	}

	mw, err := zw.Create(manifestName)
	if err != nil {
		return nil, fmt.Errorf("creating manifest entry: %w", err)
	}
	enc := json.NewEncoder(mw)
	if err := enc.Encode(&manifest); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	log.Debugf("Encoded backup: %d languages, %d bytes", len(langs), buf.Len())
	return buf.Bytes(), nil
}

// Decode parses archive bytes back into a manifest. The manifest is
// authoritative for word membership; the per-language text files exist
// for human portability and are not re-read here.
func Decode(data []byte) (*Manifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var manifestFile *zip.File
	for _, f := range zr.File {
		if f.Name == manifestName {
			manifestFile = f
			break
		}
	}
	if manifestFile == nil {
		return nil, ErrMissingManifest
	}

	rc, err := manifestFile.Open()
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer rc.Close()

	var manifest Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	if manifest.Version > FormatVersion {
		return nil, &IncompatibleVersionError{
			BackupVersion:  manifest.Version,
			CurrentVersion: FormatVersion,
		}
	}
	return &manifest, nil
}

// Export snapshots the store's overlays into archive bytes.
func Export(store *dictionary.Store, appVersion string) ([]byte, error) {
	return Encode(store.CustomWords(), appVersion)
}

// Import applies an archive to the store. Per-word failures are
// tallied, never fatal to the batch; only a malformed or incompatible
// archive fails outright.
func Import(store *dictionary.Store, data []byte, mode ImportMode) (ImportTally, error) {
	var tally ImportTally

	manifest, err := Decode(data)
	if err != nil {
		return tally, err
	}

	if mode == Replace {
		if err := store.ClearCustomWords(); err != nil {
			log.Errorf("Clearing overlays before replace import: %v", err)
			return tally, fmt.Errorf("clearing overlays: %w", err)
		}
	}

	for _, lang := range manifest.Languages {
		for _, word := range lang.Words {
			res := store.AddCustomWord(word, lang.LanguageCode)
			switch res.Outcome {
			case dictionary.AddSuccess:
				tally.Added++
			case dictionary.AddAlreadyExists:
				tally.Duplicates++
			case dictionary.AddInvalidFormat:
				tally.Invalid++
			default:
				tally.Errors++
			}
		}
	}
	log.Debugf("Import (%s): %+v", mode, tally)
	return tally, nil
}
