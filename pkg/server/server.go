package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/typofix/pkg/backup"
	"github.com/bastiangx/typofix/pkg/dictionary"
	"github.com/bastiangx/typofix/pkg/session"
	"github.com/bastiangx/typofix/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one correction session.
type Server struct {
	store      *dictionary.Store
	sess       *session.Session
	appVersion string
	maxLimit   int
	maxWordLen int

	dec *msgpack.Decoder
	enc *msgpack.Encoder
}

// Options bound what a single request may ask for.
type Options struct {
	MaxLimit   int
	MaxWordLen int
}

// NewServer creates a server over stdin/stdout for the given store and
// session.
func NewServer(store *dictionary.Store, sess *session.Session, appVersion string, opts Options) *Server {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 64
	}
	if opts.MaxWordLen <= 0 {
		opts.MaxWordLen = 60
	}
	return &Server{
		store:      store,
		sess:       sess,
		appVersion: appVersion,
		maxLimit:   opts.MaxLimit,
		maxWordLen: opts.MaxWordLen,
		dec:        msgpack.NewDecoder(os.Stdin),
		enc:        msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins the request loop. Returns nil on client EOF.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")

	s.send(map[string]string{"status": "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Cmd {
	case "char":
		s.handleChar(req)
	case "space":
		s.handleSpace(req)
	case "backspace":
		s.handleBackspace(req)
	case "commit":
		s.sess.CommitWord(req.Word)
		s.send(SessionResponse{ID: req.ID, Status: "ok"})
	case "reset":
		s.sess.Reset()
		s.send(SessionResponse{ID: req.ID, Status: "ok"})
	case "suggest":
		s.handleSuggest(req)
	case "add_word":
		s.handleAddWord(req)
	case "remove_word":
		s.handleRemoveWord(req)
	case "export":
		s.handleExport(req)
	case "import":
		s.handleImport(req)
	case "info":
		s.send(InfoResponse{
			ID:        req.ID,
			Status:    "ok",
			Languages: s.store.Languages(),
			Words:     s.store.Stats(),
		})
	case "health":
		s.send(InfoResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Cmd), 400)
	}
}

func (s *Server) handleChar(req Request) {
	runes := []rune(req.Char)
	if len(runes) != 1 {
		s.sendError(req.ID, "'ch' must be a single character", 400)
		return
	}
	s.sess.AddCharacter(runes[0])
	s.send(SessionResponse{ID: req.ID, Status: "ok", Buffer: s.sess.Word()})
}

func (s *Server) handleSpace(req Request) {
	corrected, applied := s.sess.HandleSpace()
	s.send(SessionResponse{
		ID:        req.ID,
		Status:    "ok",
		Applied:   applied,
		Corrected: corrected,
		Buffer:    s.sess.Word(),
	})
}

func (s *Server) handleBackspace(req Request) {
	rec, undo := s.sess.HandleBackspace()
	s.send(SessionResponse{
		ID:        req.ID,
		Status:    "ok",
		Undo:      undo,
		Original:  rec.Original,
		Corrected: rec.Corrected,
		Buffer:    s.sess.Word(),
	})
}

func (s *Server) handleSuggest(req Request) {
	word := req.Word
	if word == "" {
		word = s.sess.Word()
	}
	if word == "" {
		s.sendError(req.ID, "Missing 'w' parameter", 400)
		return
	}
	if len(word) > s.maxWordLen {
		s.sendError(req.ID, fmt.Sprintf("Word exceeds maximum length of %d characters", s.maxWordLen), 400)
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.maxLimit {
		limit = suggest.DefaultLimit
	}

	start := time.Now()
	suggestions := s.sess.Suggestions(word, limit)
	elapsed := time.Since(start)

	wire := make([]WireSuggestion, len(suggestions))
	for i, sg := range suggestions {
		wire[i] = WireSuggestion{
			Word:       sg.Word,
			Confidence: sg.Confidence,
			Source:     sg.Source.String(),
			Distance:   sg.Distance,
			Band:       sg.Band().String(),
		}
	}
	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: wire,
		Count:       len(wire),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAddWord(req Request) {
	if req.Word == "" || req.Lang == "" {
		s.sendError(req.ID, "add_word needs 'w' and 'lang'", 400)
		return
	}
	res := s.store.AddCustomWord(req.Word, req.Lang)
	resp := WordResponse{ID: req.ID, Status: res.Outcome.String()}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	s.send(resp)
}

func (s *Server) handleRemoveWord(req Request) {
	if req.Word == "" || req.Lang == "" {
		s.sendError(req.ID, "remove_word needs 'w' and 'lang'", 400)
		return
	}
	if s.store.RemoveCustomWord(req.Word, req.Lang) {
		s.send(WordResponse{ID: req.ID, Status: "removed"})
		return
	}
	s.send(WordResponse{ID: req.ID, Status: "not_found"})
}

func (s *Server) handleExport(req Request) {
	data, err := backup.Export(s.store, s.appVersion)
	if err != nil {
		if err == backup.ErrNoWordsToExport {
			s.send(BackupResponse{ID: req.ID, Status: "no_words_to_export"})
			return
		}
		s.send(BackupResponse{ID: req.ID, Status: "error", Error: err.Error()})
		return
	}
	s.send(BackupResponse{ID: req.ID, Status: "ok", Data: data})
}

func (s *Server) handleImport(req Request) {
	if len(req.Data) == 0 {
		s.sendError(req.ID, "import needs archive bytes in 'data'", 400)
		return
	}
	mode := backup.Merge
	if strings.EqualFold(req.Mode, "replace") {
		mode = backup.Replace
	}

	tally, err := backup.Import(s.store, req.Data, mode)
	if err != nil {
		status := "error"
		if _, incompatible := err.(*backup.IncompatibleVersionError); incompatible {
			status = "incompatible_version"
		} else if err == backup.ErrMissingManifest {
			status = "invalid_format"
		}
		s.send(BackupResponse{ID: req.ID, Status: status, Error: err.Error()})
		return
	}
	s.send(BackupResponse{
		ID:         req.ID,
		Status:     "ok",
		Added:      tally.Added,
		Duplicates: tally.Duplicates,
		Invalid:    tally.Invalid,
		Errors:     tally.Errors,
	})
}

// send marshals the response and writes it to the client.
func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
