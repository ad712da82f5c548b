package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ncobase/taskmanager/ctxutil"
	"github.com/ncobase/taskmanager/logging/logger/config"
	"github.com/sirupsen/logrus"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.DebugLevel)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Info(ctx, "task created", "id", 42, "error", errors.New("boom"))

	entry := lastEntry(t, &buf)
	if entry["msg"] != "task created" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["id"] != float64(42) {
		t.Errorf("id = %v", entry["id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry[ctxutil.TraceIDKey] != "trace-1" {
		t.Errorf("trace_id = %v", entry[ctxutil.TraceIDKey])
	}
	if entry[VersionKey] != "1.2.3" {
		t.Errorf("version = %v", entry[VersionKey])
	}
}

func TestOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.InfoLevel)

	l.Warn(context.Background(), "dangling", "orphan")

	if entry := lastEntry(t, &buf); entry["!BADKEY"] != "orphan" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.InfoLevel)

	l.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	if err := l.SetLevelString("debug"); err != nil {
		t.Fatalf("SetLevelString() error = %v", err)
	}
	l.Debug(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("debug line missing after level change")
	}

	if err := l.SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitFileOutput(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	cleanup, err := l.Init(&config.Config{Level: "info", Format: "json", Output: "file", OutputFile: file})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer cleanup()

	if l.logFile == nil {
		t.Fatal("log file not opened")
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", l.Formatter)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	if _, err := l.Init(&config.Config{Level: "chatty"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
