// Package rules defines the redaction rule model: compiled rules with stable
// identifiers, built-in pattern groups, named presets, and a loader for
// user-supplied JSON rule files.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Sentinel errors for rule-list construction. Callers match them with
// errors.Is; wrapped messages carry the offending pattern or element index.
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidFormat  = errors.New("invalid rule file format")
	ErrUnknownPreset  = errors.New("unknown preset")
)

// Rule is a compiled redaction rule. Rules are immutable once constructed and
// safe for concurrent use.
type Rule struct {
	ID          string
	Pattern     string
	Replacement string
	Regex       *regexp.Regexp
}

// RuleID returns the stable identifier for a (pattern, replacement) pair:
// the first 12 hex characters of sha256(pattern, 0x00, replacement).
// Identical definitions always produce the same id across runs, so report
// events can be correlated between processes.
func RuleID(pattern, replacement string) string {
	h := sha256.New()
	h.Write([]byte(pattern))
	h.Write([]byte{0})
	h.Write([]byte(replacement))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// Compile compiles a pattern list into rules, preserving order. The index of
// the first malformed pattern is included in the error.
func Compile(pairs []PatternDef) ([]Rule, error) {
	out := make([]Rule, 0, len(pairs))
	for i, p := range pairs {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w: %v", i, ErrInvalidPattern, err)
		}
		out = append(out, Rule{
			ID:          RuleID(p.Pattern, p.Replacement),
			Pattern:     p.Pattern,
			Replacement: p.Replacement,
			Regex:       re,
		})
	}
	return out, nil
}

func mustCompile(pairs []PatternDef) []Rule {
	rs, err := Compile(pairs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Built-in groups are compiled once at startup and shared read-only.
var defaultRules = mustCompile(DefaultPatterns)

// Defaults returns the default rule list: secrets, headers, parameters, PII.
func Defaults() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetPatterns))
	for name := range presetPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the compiled rule list for a built-in preset.
func Preset(name string) ([]Rule, error) {
	pairs, ok := presetPatterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return mustCompile(pairs), nil
}
