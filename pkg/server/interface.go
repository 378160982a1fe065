/*
Package server implements msgpack IPC for the correction session.

The server exposes the keystroke contract and the dictionary management
ops over stdin/stdout using binary msgpack encoding. Messages are
processed synchronously, one session per server process, with timing
info included in suggestion responses.

# IPC

Clients send structured messages via stdin and receive responses
through stdout. Each message carries an ID and a command.

Keystroke path:

	{"id": "k1", "cmd": "char", "ch": "d"}
	{"id": "k5", "cmd": "space"}

A space response reports whether a correction was applied silently:

	{"id": "k5", "applied": true, "corrected": "don't"}

Backspace consults the one-slot undo memory; when a silent correction
is pending the response hands back the original token so the client
can restore it:

	{"id": "k6", "cmd": "backspace"}
	{"id": "k6", "undo": true, "original": "dont", "corrected": "don't"}

Suggestion polling is independent of the silent-apply path:

	{"id": "s1", "cmd": "suggest", "w": "wrld", "l": 5}
	{"id": "s1", "s": [{"w": "world", "conf": 0.88, "src": "dictionary", "d": 1}], "c": 1, "t": 120}

Management ops mutate the custom overlays and move backup archives:

	{"id": "m1", "cmd": "add_word", "w": "golang", "lang": "en"}
	{"id": "m2", "cmd": "export"}
	{"id": "m3", "cmd": "import", "data": <archive bytes>, "mode": "replace"}

Every response carries a status string; failures use the closed outcome
names (already_exists, invalid_format, ...) rather than free-form text.
*/
package server

// Request is the single incoming message shape; fields beyond ID and
// Cmd apply per command.
type Request struct {
	ID    string `msgpack:"id"`
	Cmd   string `msgpack:"cmd"`
	Char  string `msgpack:"ch,omitempty"`
	Word  string `msgpack:"w,omitempty"`
	Lang  string `msgpack:"lang,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
	Mode  string `msgpack:"mode,omitempty"`
	Data  []byte `msgpack:"data,omitempty"`
}

// WireSuggestion - minimal suggestion payload
type WireSuggestion struct {
	Word       string  `msgpack:"w"`
	Confidence float64 `msgpack:"conf"`
	Source     string  `msgpack:"src"`
	Distance   int     `msgpack:"d"`
	Band       string  `msgpack:"band"`
}

// SessionResponse answers char/space/backspace/commit/reset.
type SessionResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Applied   bool   `msgpack:"applied,omitempty"`
	Corrected string `msgpack:"corrected,omitempty"`
	Undo      bool   `msgpack:"undo,omitempty"`
	Original  string `msgpack:"original,omitempty"`
	Buffer    string `msgpack:"buf,omitempty"`
}

// SuggestResponse answers suggest requests.
type SuggestResponse struct {
	ID          string           `msgpack:"id"`
	Suggestions []WireSuggestion `msgpack:"s"`
	Count       int              `msgpack:"c"`
	TimeTaken   int64            `msgpack:"t"`
}

// WordResponse answers add_word/remove_word.
type WordResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"e,omitempty"`
}

// BackupResponse answers export/import.
type BackupResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	Error      string `msgpack:"e,omitempty"`
	Data       []byte `msgpack:"data,omitempty"`
	Added      int    `msgpack:"added,omitempty"`
	Duplicates int    `msgpack:"dups,omitempty"`
	Invalid    int    `msgpack:"invalid,omitempty"`
	Errors     int    `msgpack:"errs,omitempty"`
}

// InfoResponse answers info/health.
type InfoResponse struct {
	ID        string         `msgpack:"id"`
	Status    string         `msgpack:"status"`
	Languages []string       `msgpack:"langs,omitempty"`
	Words     map[string]int `msgpack:"words,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
