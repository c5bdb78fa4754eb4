// Package logging provides concrete implementations of the savemigrate.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr (or any io.Writer)
//   - MemoryLogger: Keeps every line in memory so callers can inspect the run log
//   - NullLogger: Discards all messages
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
