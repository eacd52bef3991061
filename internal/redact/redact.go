// Package redact implements the redaction engine: sequential rule
// application over single lines and line-oriented streams, with match
// accounting and per-event reporting.
package redact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/logscrub/logscrub/internal/rules"
)

// Apply runs every rule in list order over one line. Each rule matches
// against the cumulative output of the rules before it, so ordering is
// significant. Returns the transformed line and the total number of
// substitutions made by all rules combined.
//
// Apply is pure: it touches no shared state and may be called concurrently
// with the same rule list.
func Apply(line string, list []rules.Rule) (string, int) {
	total := 0
	out := line
	for _, r := range list {
		var n int
		out, n = applyOne(out, r)
		total += n
	}
	return out, total
}

// applyOne applies a single rule and reports its substitution count.
func applyOne(s string, r rules.Rule) (string, int) {
	n := len(r.Regex.FindAllStringIndex(s, -1))
	if n == 0 {
		return s, 0
	}
	return r.Regex.ReplaceAllString(s, r.Replacement), n
}

// Stream reads lines from in, redacts each with the given rule list, and
// writes the result to out. Line terminators (or the absence of one on the
// final line) are preserved verbatim; only rule replacements change content.
// Each transformed line is written as soon as it is processed, so inputs of
// arbitrary size stream in constant memory.
//
// When report is non-nil, one JSON Lines event is written per (line, rule)
// pair with a nonzero match count, in rule-application order.
//
// On an I/O failure the error is returned immediately with the stats
// accumulated so far; output already written for prior lines stands.
func Stream(in io.Reader, out io.Writer, list []rules.Rule, report io.Writer) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(in)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			stats.Lines++
			content, term := splitTerminator(line)
			for _, r := range list {
				var n int
				content, n = applyOne(content, r)
				if n == 0 {
					continue
				}
				stats.Redactions += n
				if report != nil {
					ev := Event{Count: n, Line: stats.Lines, Pattern: r.Pattern, RuleID: r.ID}
					if err := ev.write(report); err != nil {
						return stats, fmt.Errorf("write report: %w", err)
					}
				}
			}
			if _, err := io.WriteString(out, content+term); err != nil {
				return stats, fmt.Errorf("write output: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("read input: %w", readErr)
		}
	}
}

// splitTerminator splits a raw line into content and its trailing
// terminator ("\n", "\r\n", or empty for an unterminated final line).
func splitTerminator(line string) (content, term string) {
	if !strings.HasSuffix(line, "\n") {
		return line, ""
	}
	content = line[:len(line)-1]
	if strings.HasSuffix(content, "\r") {
		return content[:len(content)-1], "\r\n"
	}
	return content, "\n"
}
