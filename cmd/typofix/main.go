/*
Package main implements the typofix correction server and CLI.

typofix is the predictive text-correction core for a physical-keyboard
input method: it tracks the word being typed, matches it against
multilingual dictionaries, ranks correction candidates and decides
whether to silently replace the word or defer to the user, with
one-level undo. Custom words persist per language and travel through a
portable backup archive.

# Usage

Start the msgpack IPC server with default settings:

	typofix serve

Use a custom data directory and enable debug mode:

	typofix serve --data /path/to/dicts -d

Run the interactive terminal mode:

	typofix repl -d

Rank candidates for one token:

	typofix suggest wrld

Manage the custom overlays:

	typofix words add golang --lang en
	typofix words remove golang --lang en
	typofix words export backup.zip
	typofix words import backup.zip --replace

The data directory holds one <lang>.txt base dictionary per language
(one lowercase word per line, sorted) and a parallel <lang>_custom.txt
overlay holding only user-added words.

# Configuration

Runtime configuration is managed through a TOML file, created with
defaults if missing:

	[correction]
	auto_apply_confidence = 0.8
	ambiguity_margin = 0.05
	max_suggestions = 5
	max_edit_distance = 2

	[dict]
	data_dir = "data/"
	languages = ["en"]

# IPC Protocol

The server communicates via MessagePack over stdin/stdout; see
pkg/server for message shapes.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typofix/internal/cli"
	"github.com/bastiangx/typofix/internal/logger"
	"github.com/bastiangx/typofix/pkg/backup"
	"github.com/bastiangx/typofix/pkg/config"
	"github.com/bastiangx/typofix/pkg/dictionary"
	"github.com/bastiangx/typofix/pkg/match"
	"github.com/bastiangx/typofix/pkg/server"
	"github.com/bastiangx/typofix/pkg/session"
	"github.com/bastiangx/typofix/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

var (
	flagConfig string
	flagData   string
	flagDebug  bool
	flagLang   string
	flagLimit  int

	cfg *config.Config
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func setup(cmd *cobra.Command, args []string) {
	log.SetDefault(logger.New("typofix"))
	if flagDebug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(false)
	} else {
		log.SetLevel(log.ErrorLevel)
	}

	cfg, _, _ = config.LoadConfigWithPriority(flagConfig)
	if flagData != "" {
		cfg.Dict.DataDir = flagData
	}
}

// loadStore loads the configured languages; aborts only when every
// single one failed.
func loadStore() *dictionary.Store {
	store := dictionary.NewStore(cfg.Dict.DataDir)
	results := store.Load(cfg.Dict.Languages)

	ok := 0
	for lang, err := range results {
		if err != nil {
			log.Warnf("Dictionary %q unavailable: %v", lang, err)
			continue
		}
		ok++
	}
	if ok == 0 && len(results) > 0 {
		log.Fatalf("No dictionary could be loaded from %s", cfg.Dict.DataDir)
	}
	return store
}

func buildSession(store *dictionary.Store) *session.Session {
	contractions := suggest.DefaultContractions()
	if cfg.Dict.ContractionsFile != "" {
		loaded, err := suggest.LoadContractions(cfg.Dict.ContractionsFile)
		if err != nil {
			log.Warnf("Contractions file unavailable: %v", err)
		} else {
			contractions = loaded
		}
	}

	matcher := match.NewMatcher(match.QWERTYCost, cfg.Correction.MaxEditDistance)
	ranker := suggest.NewRanker(store, contractions, matcher)
	return session.New(ranker, session.Config{
		AutoApplyConfidence: cfg.Correction.AutoApplyConfidence,
		AmbiguityMargin:     cfg.Correction.AmbiguityMargin,
		ContextSize:         cfg.Session.ContextSize,
		MaxSuggestions:      cfg.Correction.MaxSuggestions,
	})
}

func main() {
	sigHandler()

	root := &cobra.Command{
		Use:              "typofix",
		Short:            "Predictive text-correction core for keyboard input methods",
		PersistentPreRun: setup,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.toml")
	root.PersistentFlags().StringVar(&flagData, "data", "", "Directory containing dictionary files")
	root.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Toggle debug mode")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the msgpack IPC server on stdin/stdout",
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			sess := buildSession(store)
			srv := server.NewServer(store, sess, appVersion, server.Options{
				MaxLimit:   cfg.Server.MaxLimit,
				MaxWordLen: cfg.Server.MaxWordLen,
			})
			if err := srv.Start(); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive terminal mode",
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			sess := buildSession(store)
			handler := cli.NewInputHandler(sess, cfg.Correction.MaxSuggestions, cfg.Server.MaxWordLen)
			if err := handler.Start(); err != nil {
				log.Fatalf("Input handler error: %v", err)
			}
		},
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest <word>",
		Short: "Rank correction candidates for one token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			sess := buildSession(store)
			suggestions := sess.Suggestions(args[0], flagLimit)
			if len(suggestions) == 0 {
				fmt.Println("no suggestions")
				return
			}
			for i, s := range suggestions {
				fmt.Printf("%2d. %-24s conf=%.2f dist=%d %s (%s)\n",
					i+1, s.Word, s.Confidence, s.Distance, s.Source, s.Band())
			}
		},
	}
	suggestCmd.Flags().IntVarP(&flagLimit, "limit", "l", 0, "Maximum number of suggestions")

	wordsCmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the custom word overlays",
	}

	addCmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Add a custom word",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			res := store.AddCustomWord(args[0], flagLang)
			if res.Err != nil {
				fmt.Printf("%s: %v\n", res.Outcome, res.Err)
				os.Exit(1)
			}
			fmt.Println(res.Outcome)
			if res.Outcome != dictionary.AddSuccess {
				os.Exit(1)
			}
		},
	}
	addCmd.Flags().StringVar(&flagLang, "lang", "en", "Language the word belongs to")

	removeCmd := &cobra.Command{
		Use:   "remove <word>",
		Short: "Remove a custom word",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			if store.RemoveCustomWord(args[0], flagLang) {
				fmt.Println("removed")
				return
			}
			fmt.Println("not found")
			os.Exit(1)
		},
	}
	removeCmd.Flags().StringVar(&flagLang, "lang", "en", "Language the word belongs to")

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export custom words to a backup archive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadStore()
			data, err := backup.Export(store, appVersion)
			if err != nil {
				if err == backup.ErrNoWordsToExport {
					fmt.Println("no custom words to export")
					os.Exit(1)
				}
				log.Fatalf("Export failed: %v", err)
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				log.Fatalf("Writing %s: %v", args[0], err)
			}
			fmt.Printf("exported to %s (%d bytes)\n", args[0], len(data))
		},
	}

	var flagReplace bool
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import custom words from a backup archive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Reading %s: %v", args[0], err)
			}
			store := loadStore()
			mode := backup.Merge
			if flagReplace {
				mode = backup.Replace
			}
			tally, err := backup.Import(store, data, mode)
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			fmt.Printf("added=%d duplicates=%d invalid=%d errors=%d\n",
				tally.Added, tally.Duplicates, tally.Invalid, tally.Errors)
		},
	}
	importCmd.Flags().BoolVar(&flagReplace, "replace", false, "Clear all overlays before importing")

	wordsCmd.AddCommand(addCmd, removeCmd, exportCmd, importCmd)
	root.AddCommand(serveCmd, replCmd, suggestCmd, wordsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
