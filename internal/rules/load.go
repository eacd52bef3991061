package rules

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
)

// Load parses redaction rules from a JSON document. Two shapes are accepted:
//
//	[{"pattern": "...", "replacement": "..."}, ...]
//	{"rules": [{"pattern": "...", "replacement": "..."}, ...]}
//
// Anything else fails with ErrInvalidFormat; a pattern that does not compile
// fails with ErrInvalidPattern. Both errors name the 0-based element index.
func Load(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var doc struct {
		Rules json.RawMessage `json:"rules"`
	}
	list := data
	if err := json.Unmarshal(data, &doc); err == nil && doc.Rules != nil {
		list = doc.Rules
	}

	var elems []json.RawMessage
	// A "null" rules value decodes to a nil slice; reject it like any
	// other non-list shape.
	if err := json.Unmarshal(list, &elems); err != nil || elems == nil {
		return nil, fmt.Errorf("%w: document must be a list or an object with a \"rules\" list", ErrInvalidFormat)
	}

	out := make([]Rule, 0, len(elems))
	for i, raw := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: rule #%d must be an object", ErrInvalidFormat, i)
		}
		pattern, ok1 := stringField(fields, "pattern")
		replacement, ok2 := stringField(fields, "replacement")
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: rule #%d must have string \"pattern\" and \"replacement\"", ErrInvalidFormat, i)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w: %v", i, ErrInvalidPattern, err)
		}
		out = append(out, Rule{
			ID:          RuleID(pattern, replacement),
			Pattern:     pattern,
			Replacement: replacement,
			Regex:       re,
		})
	}
	return out, nil
}

// LoadFile reads rules from a JSON file on disk.
func LoadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	rs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
