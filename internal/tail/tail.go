// Package tail follows a growing log file and passes every line through the
// redaction engine before it is emitted.
//
// It implements "tail -f" like behavior with log rotation detection; no
// unredacted line ever reaches the output function.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/logscrub/logscrub/internal/redact"
	"github.com/logscrub/logscrub/internal/rules"
)

// Line is one redacted log line handed to the output function.
type Line struct {
	Num        int    // 1-based line number since the tailer started
	Text       string // redacted content, terminator stripped
	Redactions int    // substitutions made on this line
}

// Options configures the tailer behavior.
type Options struct {
	FilePath   string           // Path to the log file
	Lines      int              // Number of initial lines to show
	Follow     bool             // Whether to follow the file for new content
	Rules      []rules.Rule     // Rule list applied to every line
	OutputFunc func(Line) error // Called for each redacted line
}

// Tailer streams a log file through the redaction engine.
type Tailer struct {
	opts    Options
	file    *os.File
	offset  int64
	lineNum int
	watcher *fsnotify.Watcher
}

// New creates a new Tailer with the given options.
func New(opts Options) *Tailer {
	return &Tailer{opts: opts}
}

// Run starts tailing. It blocks until the context is cancelled or an error
// occurs.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer t.close()

	if t.opts.Lines > 0 {
		if err := t.emitInitialLines(); err != nil {
			return fmt.Errorf("failed to read initial lines: %w", err)
		}
	}

	if !t.opts.Follow {
		return nil
	}

	if err := t.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer t.watcher.Close()

	return t.watch(ctx)
}

func (t *Tailer) openFile() error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return err
	}
	t.file = f

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	t.offset = stat.Size()
	return nil
}

func (t *Tailer) close() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}

// emitInitialLines reads the last N lines of the file through the engine.
func (t *Tailer) emitInitialLines() error {
	stat, err := t.file.Stat()
	if err != nil {
		return err
	}
	fileSize := stat.Size()
	if fileSize == 0 {
		return nil
	}

	// Heuristic starting position: generous average line length so we read
	// at least N full lines.
	startPos := fileSize - int64(t.opts.Lines*300*2)
	if startPos < 0 {
		startPos = 0
	}
	if _, err := t.file.Seek(startPos, io.SeekStart); err != nil {
		return err
	}

	scanner := newLineScanner(t.file)
	if startPos > 0 && scanner.Scan() {
		// Discard the first partial line.
	}

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) > t.opts.Lines {
		lines = lines[len(lines)-t.opts.Lines:]
	}

	for _, line := range lines {
		if err := t.emit(line); err != nil {
			return err
		}
	}

	t.offset, err = t.file.Seek(0, io.SeekEnd)
	return err
}

// emit redacts one line and hands it to the output function.
func (t *Tailer) emit(line string) error {
	t.lineNum++
	text, n := redact.Apply(line, t.opts.Rules)
	return t.opts.OutputFunc(Line{Num: t.lineNum, Text: text, Redactions: n})
}

func (t *Tailer) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = watcher
	return watcher.Add(t.opts.FilePath)
}

// watch monitors the file for changes and emits new lines.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := t.handleEvent(event); err != nil {
				return err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (t *Tailer) handleEvent(event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return t.readNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		// Log rotation: the file was moved or removed.
		return t.handleRotation()
	}
	return nil
}

// readNewContent reads from the last known offset and emits complete lines.
func (t *Tailer) readNewContent() error {
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := newLineScanner(t.file)
	for scanner.Scan() {
		if err := t.emit(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	offset, err := t.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	t.offset = offset
	return nil
}

// handleRotation reopens the file after a rename/remove, waiting briefly for
// the new file to appear.
func (t *Tailer) handleRotation() error {
	t.close()

	var err error
	for i := 0; i < 10; i++ {
		time.Sleep(200 * time.Millisecond)
		if t.file, err = os.Open(t.opts.FilePath); err == nil {
			t.offset = 0
			_ = t.watcher.Add(t.opts.FilePath)
			return t.readNewContent()
		}
	}
	return fmt.Errorf("file not recreated after rotation: %w", err)
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)
	return scanner
}
