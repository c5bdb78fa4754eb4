package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Level tags a line captured by MemoryLogger.
type Level string

const (
	LevelVerbose Level = "verbose"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Entry is one captured log line.
type Entry struct {
	Level   Level
	Message string
}

// MemoryLogger records every message, including verbose ones.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Verbose(format string, args ...interface{}) {
	l.add(LevelVerbose, format, args)
}

func (l *MemoryLogger) Info(format string, args ...interface{}) {
	l.add(LevelInfo, format, args)
}

func (l *MemoryLogger) Error(format string, args ...interface{}) {
	l.add(LevelError, format, args)
}

func (l *MemoryLogger) add(level Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of everything logged so far.
func (l *MemoryLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines returns the messages logged at level.
func (l *MemoryLogger) Lines(level Level) []string {
	var lines []string
	for _, e := range l.Entries() {
		if e.Level == level {
			lines = append(lines, e.Message)
		}
	}
	return lines
}

// Contains reports whether any message at level contains substr.
func (l *MemoryLogger) Contains(level Level, substr string) bool {
	for _, line := range l.Lines(level) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
