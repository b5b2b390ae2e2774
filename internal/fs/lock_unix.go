//go:build unix

package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	lockPerms = 0o644
	dirPerms  = 0o755
)

// realLock holds an exclusive flock on an open lock file.
type realLock struct {
	mu   sync.Mutex
	file *os.File
}

// Close releases the lock and closes the file descriptor. It is idempotent.
//
// The lock file itself is left on disk: unlinking it while another process
// has it open would let two processes lock different inodes for one path.
func (l *realLock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	unlockErr := flockRetryEINTR(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking lock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock fd: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

// TryLock takes a non-blocking exclusive flock(2) on path.
func (r *Real) TryLock(path string) (Locker, error) {
	err := os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPerms)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	err = flockRetryEINTR(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = file.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrWouldBlock, path)
		}

		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &realLock{file: file}, nil
}

func flockRetryEINTR(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
