// Package fileio opens the input and output streams of a redaction run:
// stdin/stdout selection, transparent gzip, input decoding policy, and
// atomic in-place file replacement. The engine itself only ever sees the
// generic reader/writer contracts built here.
package fileio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdio is the pseudo-path selecting standard input or output.
const Stdio = "-"

// IsGzipPath reports whether a path names a gzip-compressed file.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// OpenInput opens path for reading. "-" selects stdin. A ".gz" suffix
// enables transparent decompression; the decoding policy is applied after
// decompression.
func OpenInput(path, encodingName string, policy ErrorPolicy) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if path == Stdio {
		rc = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	closers := []io.Closer{rc}
	var r io.Reader = rc
	if path != Stdio && IsGzipPath(path) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("open gzip input %s: %w", path, err)
		}
		closers = append([]io.Closer{gz}, closers...)
		r = gz
	}

	dec, err := decodeReader(r, encodingName, policy)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	return &readCloser{r: dec, closers: closers}, nil
}

// OpenOutput opens path for writing, truncating any existing file. "-"
// selects stdout. A ".gz" suffix enables transparent compression.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !IsGzipPath(path) {
		return f, nil
	}
	return &writeCloser{w: gzip.NewWriter(f), closers: []io.Closer{f}}, nil
}

type readCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (rc *readCloser) Read(p []byte) (int, error) { return rc.r.Read(p) }

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// writeCloser closes the outer writer before the underlying closers so
// buffered/compressed data is flushed.
type writeCloser struct {
	w       io.WriteCloser
	closers []io.Closer
}

func (wc *writeCloser) Write(p []byte) (int, error) { return wc.w.Write(p) }

func (wc *writeCloser) Close() error {
	first := wc.w.Close()
	for _, c := range wc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
