// Package output renders rule catalogs and preset listings.
// It supports json (the machine contract), text, and table formats.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/logscrub/logscrub/internal/rules"
)

// Format represents an output format type.
type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to json.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text":
		return FormatText
	case "table":
		return FormatTable
	default:
		return FormatJSON
	}
}

// Writer handles writing formatted rule listings.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// ruleJSON is the serialized view of a rule. The compiled matcher never
// leaves the process.
type ruleJSON struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	RuleID      string `json:"rule_id"`
}

// WriteRules outputs a rule list in the configured format.
func (wr *Writer) WriteRules(list []rules.Rule) error {
	switch wr.format {
	case FormatText:
		for _, r := range list {
			if _, err := fmt.Fprintf(wr.w, "%s  %s -> %s\n", r.ID, r.Pattern, r.Replacement); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RULE_ID\tPATTERN\tREPLACEMENT")
		fmt.Fprintln(tw, "-------\t-------\t-----------")
		for _, r := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Pattern, r.Replacement)
		}
		return tw.Flush()
	default:
		views := make([]ruleJSON, 0, len(list))
		for _, r := range list {
			views = append(views, ruleJSON{Pattern: r.Pattern, Replacement: r.Replacement, RuleID: r.ID})
		}
		return wr.writeJSON(map[string][]ruleJSON{"rules": views})
	}
}

// WritePresets outputs the preset name listing.
func (wr *Writer) WritePresets(names []string) error {
	if wr.format == FormatJSON {
		return wr.writeJSON(map[string][]string{"presets": names})
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(wr.w, name); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON emits v without HTML escaping, so regex sources survive intact.
func (wr *Writer) writeJSON(v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := wr.w.Write(buf.Bytes())
	return err
}
