package common

import (
	"fmt"
	"strings"
	"sync"
)

// Level names used by TestLogger entries.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Entry is a single event captured by TestLogger.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// TestLogger records every event so tests can make assertions
// against them. It is safe for concurrent use.
type TestLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTestLogger constructs a test logger we can make assertions against.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (tl *TestLogger) Debug(msg string, args ...interface{}) { tl.add(LevelDebug, msg, args) }
func (tl *TestLogger) Info(msg string, args ...interface{})  { tl.add(LevelInfo, msg, args) }
func (tl *TestLogger) Warn(msg string, args ...interface{})  { tl.add(LevelWarn, msg, args) }
func (tl *TestLogger) Error(msg string, args ...interface{}) { tl.add(LevelError, msg, args) }

func (tl *TestLogger) add(level, msg string, args []interface{}) {
	fields := make(map[string]interface{}, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	tl.mu.Lock()
	tl.entries = append(tl.entries, Entry{Level: level, Msg: msg, Fields: fields})
	tl.mu.Unlock()
}

// Entries returns a copy of everything logged so far.
func (tl *TestLogger) Entries() []Entry {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]Entry(nil), tl.entries...)
}

// Count returns how many entries at level contain substr in their message.
// An empty level matches every level.
func (tl *TestLogger) Count(level, substr string) int {
	n := 0
	for _, e := range tl.Entries() {
		if (level == "" || e.Level == level) && strings.Contains(e.Msg, substr) {
			n++
		}
	}
	return n
}

// Find returns the first entry at level containing substr in its message.
func (tl *TestLogger) Find(level, substr string) (Entry, bool) {
	for _, e := range tl.Entries() {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return e, true
		}
	}
	return Entry{}, false
}
