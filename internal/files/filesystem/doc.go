// Package filesystem provides the flat directory listing and file reading used
// by the migration run.
//
// Implementations:
//   - OSFileSystem: production implementation on the OS filesystem
//   - MemoryFileSystem: in-memory implementation for tests, with injectable
//     read failures
package filesystem
