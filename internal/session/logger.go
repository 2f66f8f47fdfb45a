package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSuffix names exam event logs inside a session directory.
const FileSuffix = ".exam.jsonl"

// ErrClosed is returned by Log after Close.
var ErrClosed = errors.New("session log closed")

// Logger receives exam lifecycle events.
type Logger interface {
	Log(event Event) error
	Close() error
}

// JSONLogger appends events to an NDJSON file. Every line is synced so the
// log of an interrupted exam is readable up to its last event.
type JSONLogger struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewJSONLogger opens path for appending, creating parent directories.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	return &JSONLogger{file: f, path: path}, nil
}

func (l *JSONLogger) Log(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ErrClosed
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing %s event: %w", event.Type, err)
	}
	return l.file.Sync()
}

// Close closes the file. Closing twice is a no-op.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *JSONLogger) Path() string {
	return l.path
}

// NopLogger discards events; it is used when session logging is off.
type NopLogger struct{}

func (NopLogger) Log(Event) error { return nil }
func (NopLogger) Close() error    { return nil }

// LogPath names the log of an exam on variantID started at start,
// e.g. 20250115T100000Z-var3.exam.jsonl.
func LogPath(dir string, variantID int, start time.Time) string {
	name := fmt.Sprintf("%s-var%d%s", start.UTC().Format("20060102T150405Z"), variantID, FileSuffix)
	return filepath.Join(dir, name)
}
