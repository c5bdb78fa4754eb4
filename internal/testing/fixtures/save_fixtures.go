package fixtures

import (
	"github.com/vvka-141/savemigrate/internal/files/filesystem"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// SaveDirRoot is the directory every fixture is rooted at.
const SaveDirRoot = "/" + savemigrate.DefaultSourceDir

// SaveDirBuilder provides a fluent API for building in-memory save
// directories for synchronizer tests.
//
// Example usage:
//
//	fs := NewSaveDirBuilder().
//	    AddSave("alice", []byte{0xDE, 0xAD}).
//	    AddFile("notes.txt", []byte("ignore me")).
//	    AddUnreadable("bob", errors.New("permission denied")).
//	    Build()
type SaveDirBuilder struct {
	fs *filesystem.MemoryFileSystem
}

// NewSaveDirBuilder creates an empty save directory at SaveDirRoot.
func NewSaveDirBuilder() *SaveDirBuilder {
	return &SaveDirBuilder{fs: filesystem.NewMemoryFileSystem(SaveDirRoot)}
}

// AddSave adds <username>.sav with data.
func (b *SaveDirBuilder) AddSave(username string, data []byte) *SaveDirBuilder {
	b.fs.AddFile(username+savemigrate.DefaultSaveExtension, data)
	return b
}

// AddFile adds an arbitrary file by name.
func (b *SaveDirBuilder) AddFile(name string, data []byte) *SaveDirBuilder {
	b.fs.AddFile(name, data)
	return b
}

// AddDir adds a subdirectory, which a flat listing reports as an entry.
func (b *SaveDirBuilder) AddDir(name string) *SaveDirBuilder {
	b.fs.AddDir(name)
	return b
}

// AddUnreadable adds <username>.sav whose reads fail with err.
func (b *SaveDirBuilder) AddUnreadable(username string, err error) *SaveDirBuilder {
	b.fs.FailRead(username+savemigrate.DefaultSaveExtension, err)
	return b
}

// Build returns the populated filesystem.
func (b *SaveDirBuilder) Build() *filesystem.MemoryFileSystem {
	return b.fs
}

// ============================================================================
// Pre-built Fixtures
// ============================================================================

// AliceAndBob is a directory with alice.sav = 0xDEAD and bob.sav = 0xBEEF.
func AliceAndBob() *filesystem.MemoryFileSystem {
	return NewSaveDirBuilder().
		AddSave("alice", []byte{0xDE, 0xAD}).
		AddSave("bob", []byte{0xBE, 0xEF}).
		Build()
}

// Mixed holds save files next to files and directories that must be skipped
// or rejected: notes.txt, an empty-named .sav, a double extension and a
// directory whose name ends in .sav.
func Mixed() *filesystem.MemoryFileSystem {
	return NewSaveDirBuilder().
		AddSave("alice", []byte("alice-data")).
		AddFile("notes.txt", []byte("not a save")).
		AddFile("savage.sav.bak", []byte("backup")).
		AddFile(".sav", []byte("nameless")).
		AddFile("a.sav.sav", []byte("double")).
		AddDir("archive.sav").
		Build()
}

// Empty is a save directory with no entries.
func Empty() *filesystem.MemoryFileSystem {
	return NewSaveDirBuilder().Build()
}
