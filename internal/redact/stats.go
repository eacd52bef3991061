package redact

import (
	"bytes"
	"encoding/json"
	"io"
)

// Stats summarizes one redaction run. Lines counts every line read,
// including a trailing unterminated one; Redactions counts individual
// substitutions, not lines touched.
//
// Field order is alphabetical so the marshaled form is key-sorted.
type Stats struct {
	Lines      int `json:"lines"`
	Redactions int `json:"redactions"`
}

// JSON returns the compact, key-sorted single-line form, e.g.
// {"lines":3,"redactions":2}. Output is byte-identical across runs for
// identical input.
func (s Stats) JSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Event records one rule matching on one line. Serialized as one compact
// key-sorted JSON object per line (JSON Lines); field order is alphabetical.
// Pattern carries the original regex source with only standard JSON string
// escaping, so HTML escaping is disabled.
type Event struct {
	Count   int    `json:"count"`
	Line    int    `json:"line"`
	Pattern string `json:"pattern"`
	RuleID  string `json:"rule_id"`
}

func (e Event) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(e)
}
