package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

var (
	_ savemigrate.Logger = (*ConsoleLogger)(nil)
	_ savemigrate.Logger = (*MemoryLogger)(nil)
	_ savemigrate.Logger = (*NullLogger)(nil)
)

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Verbose("test message: %s", "value")

	assert.Equal(t, "[VERBOSE] test message: value\n", buf.String())
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Verbose("test message: %s", "value")

	assert.Empty(t, buf.String())
}

func TestConsoleLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("migrated: %s", "alice.sav")

	assert.Equal(t, "migrated: alice.sav\n", buf.String())
}

func TestConsoleLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Error("failed to migrate: %s", "bob.sav")

	assert.Equal(t, "[ERROR] failed to migrate: bob.sav\n", buf.String())
}

func TestConsoleLogger_NoArgsKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("100% done")

	assert.Equal(t, "100% done\n", buf.String())
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 30)
	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestMemoryLogger_CapturesByLevel(t *testing.T) {
	logger := NewMemoryLogger()
	logger.Info("Table '%s' is ready", "player_saves")
	logger.Error("Failed to migrate %s", "bob.sav")
	logger.Verbose("checksum %s", "abc")

	assert.Equal(t, []string{"Table 'player_saves' is ready"}, logger.Lines(LevelInfo))
	assert.Equal(t, []string{"Failed to migrate bob.sav"}, logger.Lines(LevelError))
	assert.True(t, logger.Contains(LevelVerbose, "abc"))
	assert.False(t, logger.Contains(LevelInfo, "bob"))
	assert.Len(t, logger.Entries(), 3)
}

func TestMemoryLogger_EntriesIsACopy(t *testing.T) {
	logger := NewMemoryLogger()
	logger.Info("one")
	entries := logger.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "one", logger.Entries()[0].Message)
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}

	wg.Wait()
}

// BenchmarkConsoleLogger_VerboseDisabled measures performance when verbose is disabled
func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	logger := NewConsoleLoggerTo(&bytes.Buffer{}, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

func ExampleMemoryLogger() {
	logger := NewMemoryLogger()
	logger.Info("Migrated %s", "alice.sav")
	logger.Error("Failed to migrate %s", "bob.sav")
	for _, e := range logger.Entries() {
		fmt.Printf("%s: %s\n", e.Level, e.Message)
	}
	// Output:
	// info: Migrated alice.sav
	// error: Failed to migrate bob.sav
}
