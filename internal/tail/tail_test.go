package tail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/logscrub/logscrub/internal/rules"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, line := range lines {
		fmt.Fprintln(f, line)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

func TestTailerInitialLinesRedacted(t *testing.T) {
	path := writeLog(t,
		"starting up",
		"login password=hunter2",
		"user alice@example.com connected",
	)

	var got []Line
	tailer := New(Options{
		FilePath: path,
		Lines:    10,
		Rules:    rules.Defaults(),
		OutputFunc: func(line Line) error {
			got = append(got, line)
			return nil
		},
	})

	if err := tailer.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if got[0].Text != "starting up" || got[0].Redactions != 0 {
		t.Errorf("line 1 = %+v, want untouched", got[0])
	}
	if got[1].Text != "login password=[REDACTED]" {
		t.Errorf("line 2 = %q, want password redacted", got[1].Text)
	}
	if got[1].Redactions != 1 {
		t.Errorf("line 2 redactions = %d, want 1", got[1].Redactions)
	}
	if got[2].Text != "user [REDACTED_EMAIL] connected" {
		t.Errorf("line 3 = %q, want email redacted", got[2].Text)
	}
	if got[2].Num != 3 {
		t.Errorf("line 3 number = %d, want 3", got[2].Num)
	}
}

func TestTailerLastNLines(t *testing.T) {
	path := writeLog(t, "one", "two", "three", "four", "five")

	var got []string
	tailer := New(Options{
		FilePath: path,
		Lines:    2,
		Rules:    rules.Defaults(),
		OutputFunc: func(line Line) error {
			got = append(got, line.Text)
			return nil
		},
	})

	if err := tailer.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 2 || got[0] != "four" || got[1] != "five" {
		t.Errorf("got %v, want last two lines", got)
	}
}

func TestTailerMissingFile(t *testing.T) {
	tailer := New(Options{
		FilePath:   filepath.Join(t.TempDir(), "absent.log"),
		Lines:      10,
		OutputFunc: func(Line) error { return nil },
	})
	if err := tailer.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
