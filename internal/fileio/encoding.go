package fileio

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrorPolicy selects how malformed input bytes are handled while decoding.
type ErrorPolicy string

const (
	// PolicyStrict fails the run on the first malformed byte.
	PolicyStrict ErrorPolicy = "strict"
	// PolicyReplace substitutes U+FFFD for malformed bytes.
	PolicyReplace ErrorPolicy = "replace"
	// PolicyIgnore drops malformed bytes.
	PolicyIgnore ErrorPolicy = "ignore"
)

// ParseErrorPolicy validates a policy name from a flag or config value.
// The empty string selects the default, ignore.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(s) {
	case "":
		return PolicyIgnore, nil
	case PolicyStrict, PolicyReplace, PolicyIgnore:
		return ErrorPolicy(s), nil
	}
	return "", fmt.Errorf("unknown error policy %q (want strict, replace, or ignore)", s)
}

// decodeReader wraps r so its bytes come out as UTF-8 text decoded from
// encodingName with the given error policy. UTF-8 input skips the decode
// step and only gets the policy transform.
func decodeReader(r io.Reader, encodingName string, policy ErrorPolicy) (io.Reader, error) {
	var ts []transform.Transformer

	if !isUTF8(encodingName) {
		enc, err := ianaindex.IANA.Encoding(encodingName)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unknown encoding %q", encodingName)
		}
		ts = append(ts, enc.NewDecoder())
	}

	switch policy {
	case PolicyStrict:
		ts = append(ts, encoding.UTF8Validator)
	case PolicyReplace:
		ts = append(ts, runes.ReplaceIllFormed())
	case PolicyIgnore:
		ts = append(ts,
			runes.ReplaceIllFormed(),
			runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
		)
	}

	if len(ts) == 0 {
		return r, nil
	}
	if len(ts) == 1 {
		return transform.NewReader(r, ts[0]), nil
	}
	return transform.NewReader(r, transform.Chain(ts...)), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
