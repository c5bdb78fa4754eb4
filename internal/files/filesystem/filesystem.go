package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider lists and reads files. Listings are flat (no recursion)
// and ordered by name.
type FileSystemProvider interface {
	// ReadDir returns the entries directly inside path.
	ReadDir(path string) ([]FileInfo, error)

	// ReadFile returns the whole content of the file at path.
	ReadFile(path string) ([]byte, error)

	// Join builds a path to name inside dir using the provider's separator.
	Join(dir, name string) string
}
