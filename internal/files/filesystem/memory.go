package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory entries.
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir || f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
	readErr error
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths use forward slashes regardless of the host OS.
type MemoryFileSystem struct {
	mu         sync.RWMutex
	root       string
	entries    map[string]*memoryEntry
	readDirErr map[string]error
}

// NewMemoryFileSystem creates an in-memory filesystem whose relative paths
// resolve against root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		root:       root,
		entries:    make(map[string]*memoryEntry),
		readDirErr: make(map[string]error),
	}
	mfs.entries[root] = &memoryEntry{info: dirInfo(root, time.Now())}
	return mfs
}

// Root returns the root directory of the filesystem.
func (mfs *MemoryFileSystem) Root() string { return mfs.root }

// AddFile adds a file with the given bytes.
func (mfs *MemoryFileSystem) AddFile(filePath string, content []byte) {
	mfs.AddFileWithTime(filePath, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time.
func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content []byte, modTime time.Time) {
	abs := mfs.abs(filePath)
	data := make([]byte, len(content))
	copy(data, content)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.entries[abs] = &memoryEntry{
		content: data,
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(data)),
			mode:    0644,
			modTime: modTime,
		},
	}
	mfs.ensureParents(abs)
}

// AddDir adds an empty directory.
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	abs := mfs.abs(dirPath)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if _, ok := mfs.entries[abs]; !ok {
		mfs.entries[abs] = &memoryEntry{info: dirInfo(abs, time.Now())}
	}
	mfs.ensureParents(abs)
}

// FailRead makes every ReadFile of filePath return err. The entry stays
// visible in listings, like an unreadable file on disk.
func (mfs *MemoryFileSystem) FailRead(filePath string, err error) {
	abs := mfs.abs(filePath)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	entry, ok := mfs.entries[abs]
	if !ok {
		entry = &memoryEntry{info: &memoryFileInfo{name: path.Base(abs), mode: 0}}
		mfs.entries[abs] = entry
		mfs.ensureParents(abs)
	}
	entry.readErr = err
}

// FailReadDir makes every ReadDir of dirPath return err.
func (mfs *MemoryFileSystem) FailReadDir(dirPath string, err error) {
	abs := mfs.abs(dirPath)
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.readDirErr[abs] = err
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	abs := mfs.abs(filePath)
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	entry, ok := mfs.entries[abs]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrNotExist}
	}
	if entry.readErr != nil {
		return nil, &fs.PathError{Op: "read", Path: abs, Err: entry.readErr}
	}
	if entry.info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: abs, Err: fmt.Errorf("is a directory")}
	}
	out := make([]byte, len(entry.content))
	copy(out, entry.content)
	return out, nil
}

func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	abs := mfs.abs(dirPath)
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if err, ok := mfs.readDirErr[abs]; ok {
		return nil, fmt.Errorf("failed to read directory: %w", &fs.PathError{Op: "readdir", Path: abs, Err: err})
	}
	dir, ok := mfs.entries[abs]
	if !ok {
		return nil, fmt.Errorf("failed to read directory: %w", &fs.PathError{Op: "open", Path: abs, Err: fs.ErrNotExist})
	}
	if !dir.info.IsDir() {
		return nil, fmt.Errorf("failed to read directory: %w", &fs.PathError{Op: "readdir", Path: abs, Err: fmt.Errorf("not a directory")})
	}

	var result []FileInfo
	for p, entry := range mfs.entries {
		if p != abs && path.Dir(p) == abs {
			result = append(result, entry.info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (mfs *MemoryFileSystem) Join(dir, name string) string {
	return path.Join(filepath.ToSlash(dir), name)
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// ensureParents must be called with mu held.
func (mfs *MemoryFileSystem) ensureParents(p string) {
	dir := path.Dir(p)
	if dir == p {
		return
	}
	if _, ok := mfs.entries[dir]; ok {
		return
	}
	mfs.entries[dir] = &memoryEntry{info: dirInfo(dir, time.Now())}
	mfs.ensureParents(dir)
}

func dirInfo(p string, modTime time.Time) *memoryFileInfo {
	return &memoryFileInfo{
		name:    path.Base(p),
		mode:    0755 | fs.ModeDir,
		modTime: modTime,
		isDir:   true,
	}
}
