package fileio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Atomic writes a replacement for an existing file through a temp file in
// the same directory, so the original is only swapped out by a rename once
// the new content is complete. An optional backup suffix preserves the
// original alongside the replacement.
type Atomic struct {
	w            io.Writer
	gz           *gzip.Writer
	tmp          *os.File
	path         string
	backupSuffix string
}

// NewAtomic prepares an atomic replacement of path. The temp file inherits
// the original's permission bits. A ".gz" path gets transparent compression,
// matching OpenOutput.
func NewAtomic(path, backupSuffix string) (*Atomic, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}

	a := &Atomic{w: tmp, tmp: tmp, path: path, backupSuffix: backupSuffix}
	if IsGzipPath(path) {
		a.gz = gzip.NewWriter(tmp)
		a.w = a.gz
	}
	return a, nil
}

func (a *Atomic) Write(p []byte) (int, error) { return a.w.Write(p) }

// Commit flushes the temp file, moves the original to its backup name if
// one was requested, and renames the temp file over the original.
func (a *Atomic) Commit() error {
	if a.gz != nil {
		if err := a.gz.Close(); err != nil {
			a.Abort()
			return fmt.Errorf("flush gzip: %w", err)
		}
	}
	if err := a.tmp.Close(); err != nil {
		a.Abort()
		return fmt.Errorf("close temp file: %w", err)
	}
	if a.backupSuffix != "" {
		if err := os.Rename(a.path, a.path+a.backupSuffix); err != nil {
			a.Abort()
			return fmt.Errorf("create backup: %w", err)
		}
	}
	if err := os.Rename(a.tmp.Name(), a.path); err != nil {
		a.Abort()
		return fmt.Errorf("replace %s: %w", a.path, err)
	}
	return nil
}

// Abort discards the temp file, leaving the original untouched.
func (a *Atomic) Abort() {
	_ = a.tmp.Close()
	_ = os.Remove(a.tmp.Name())
}
