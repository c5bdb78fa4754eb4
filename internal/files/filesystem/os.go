package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystemProvider for the OS filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists path. An entry whose metadata cannot be read is still
// returned (as a name-only FileInfo) so one broken entry does not hide the
// rest of the directory; reading it later reports the real error.
func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			info = &memoryFileInfo{name: entry.Name(), mode: entry.Type()}
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Join(dir, name string) string {
	return filepath.Join(dir, name)
}
