// Package fs provides the filesystem abstraction used by the blog builder.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the builder performs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os], atomic writes and flock
//   - [Faulty]: testing implementation that injects failures on chosen paths
//
// Example usage:
//
//	fsys := fs.NewReal()
//	f, err := fsys.Open("posts/hello.md")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	line, _ := bufio.NewReader(f).ReadString('\n')
package fs

import (
	"errors"
	"io"
	"os"
)

// ErrWouldBlock is returned by [FS.TryLock] when another process holds the lock.
var ErrWouldBlock = errors.New("lock would block")

// File represents an open file.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader] or [io.Closer].
type File interface {
	io.ReadCloser

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
//
// Example:
//
//	lock, err := fsys.TryLock("/tmp/blogbuild-1a2b3c4d.lock")
//	if err != nil {
//	    return err // another build holds it
//	}
//	defer lock.Close()
type Locker interface {
	io.Closer
}

// FS defines the filesystem operations the builder needs.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] package
//   - [Faulty]: testing use, injects failures
//
// Methods mirror their [os] package equivalents so failures can be
// intercepted in tests.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path via a temp file and rename, so
	// readers see either the old or the new content, never a partial file.
	// perm is applied after the rename; 0 keeps whatever mode the file has.
	// A symlink at path is followed: its target is replaced, the link kept.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries sorted by name.
	// See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// TryLock acquires an exclusive advisory lock on the file at path,
	// creating it if needed. It never waits: if the lock is held elsewhere
	// the error satisfies errors.Is(err, [ErrWouldBlock]).
	TryLock(path string) (Locker, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
