package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// Op names a filesystem operation that [Faulty] can fail.
type Op uint8

const (
	// OpOpen fails [FS.Open].
	OpOpen Op = iota + 1
	// OpRead fails reads: [FS.ReadFile] and Read on files returned by [FS.Open].
	OpRead
	// OpWrite fails [FS.WriteFileAtomic].
	OpWrite
	// OpReadDir fails [FS.ReadDir] on a directory.
	OpReadDir
	// OpInfo fails [os.DirEntry.Info] for one entry returned by [FS.ReadDir].
	OpInfo
	// OpStat fails [FS.Stat] and [FS.Exists].
	OpStat
	// OpMkdir fails [FS.MkdirAll].
	OpMkdir
	// OpLock fails [FS.TryLock].
	OpLock
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails chosen operations on chosen paths.
//
// Unlike random fault injection, every failure is registered up front with
// [Faulty.Fail], so tests can assert exactly which path broke and how the
// caller reacted. Unregistered calls pass through to the wrapped [FS].
//
// Injected errors are *os.PathError values carrying a [syscall.Errno], wrapped
// in [InjectedError], so os.IsNotExist/os.IsPermission keep working.
//
// Faulty is safe for concurrent use.
type Faulty struct {
	fs FS

	mu     sync.RWMutex
	faults map[faultKey]error
	calls  map[Op]int
}

type faultKey struct {
	op   Op
	path string
}

// NewFaulty wraps fs. Panics if fs is nil.
func NewFaulty(fs FS) *Faulty {
	if fs == nil {
		panic("fs is nil")
	}

	return &Faulty{
		fs:     fs,
		faults: make(map[faultKey]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes op on path return errno. Paths are cleaned before matching.
// A zero errno defaults to EIO.
func (f *Faulty) Fail(op Op, path string, errno syscall.Errno) {
	if errno == 0 {
		errno = syscall.EIO
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[faultKey{op: op, path: filepath.Clean(path)}] = errno
}

// Heal removes every registered fault.
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.faults)
}

// Injected returns how many times op has failed so far.
func (f *Faulty) Injected(op Op) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op, name, path string) error {
	key := faultKey{op: op, path: filepath.Clean(path)}

	f.mu.RLock()
	errno, ok := f.faults[key]
	f.mu.RUnlock()

	if !ok {
		return nil
	}

	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()

	return &InjectedError{Err: &os.PathError{Op: name, Path: path, Err: errno}}
}

// --- FS ---

// Open fails with OpOpen, or returns a file whose reads fail with OpRead.
func (f *Faulty) Open(path string) (File, error) {
	err := f.check(OpOpen, "open", path)
	if err != nil {
		return nil, err
	}

	file, err := f.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, owner: f, path: path}, nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	err := f.check(OpRead, "read", path)
	if err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := f.check(OpWrite, "write", path)
	if err != nil {
		return err
	}

	return f.fs.WriteFileAtomic(path, data, perm)
}

// ReadDir fails with OpReadDir; entries registered for OpInfo (by full path)
// come back with an Info method that fails.
func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	err := f.check(OpReadDir, "readdirent", path)
	if err != nil {
		return nil, err
	}

	entries, err := f.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}

	wrapped := make([]os.DirEntry, len(entries))
	for i, entry := range entries {
		wrapped[i] = &faultyDirEntry{DirEntry: entry, owner: f, path: filepath.Join(path, entry.Name())}
	}

	return wrapped, nil
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	err := f.check(OpMkdir, "mkdir", path)
	if err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	err := f.check(OpStat, "stat", path)
	if err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	err := f.check(OpStat, "stat", path)
	if err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

func (f *Faulty) TryLock(path string) (Locker, error) {
	err := f.check(OpLock, "flock", path)
	if err != nil {
		return nil, err
	}

	return f.fs.TryLock(path)
}

// --- wrappers ---

type faultyFile struct {
	File

	owner *Faulty
	path  string
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	err := ff.owner.check(OpRead, "read", ff.path)
	if err != nil {
		return 0, err
	}

	return ff.File.Read(p)
}

type faultyDirEntry struct {
	os.DirEntry

	owner *Faulty
	path  string
}

func (e *faultyDirEntry) Info() (os.FileInfo, error) {
	err := e.owner.check(OpInfo, "lstat", e.path)
	if err != nil {
		return nil, err
	}

	return e.DirEntry.Info()
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
