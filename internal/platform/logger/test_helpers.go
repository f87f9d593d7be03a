package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogEntry is one decoded JSON log line.
type LogEntry map[string]interface{}

// TestLogBuffer collects JSON log output in tests. It is safe for concurrent
// writers, so it can back loggers shared with dispatcher workers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// GetLogEntries decodes every non-empty line of the buffer.
func (b *TestLogBuffer) GetLogEntries() ([]LogEntry, error) {
	var entries []LogEntry

	sc := bufio.NewScanner(strings.NewReader(b.String()))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// Find returns the first entry whose msg equals msg, failing the test if
// there is none.
func (b *TestLogBuffer) Find(t *testing.T, msg string) LogEntry {
	t.Helper()

	entries, err := b.GetLogEntries()
	if err != nil {
		t.Fatalf("failed to decode log output: %v", err)
	}
	for _, e := range entries {
		if e["msg"] == msg {
			return e
		}
	}
	t.Fatalf("no log entry with msg %q.\nLogs:\n%s", msg, b.String())
	return nil
}

// NewTestLogger returns a debug-level JSON logger writing into a fresh buffer.
// It does not touch the slog default.
func NewTestLogger(t *testing.T) (*TestLogBuffer, *slog.Logger) {
	t.Helper()
	buf := &TestLogBuffer{}
	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// AssertLogContains fails the test if the buffer does not contain content.
func AssertLogContains(t *testing.T, logBuf *TestLogBuffer, content string) {
	t.Helper()

	if logs := logBuf.String(); !strings.Contains(logs, content) {
		t.Errorf("Expected log to contain %q, but it doesn't.\nLogs:\n%s", content, logs)
	}
}
