//go:build !unix

package fs

// nopLock is returned where flock is unavailable.
type nopLock struct{}

func (nopLock) Close() error { return nil }

// TryLock is a no-op on platforms without flock(2); concurrent builds are
// not detected there.
func (r *Real) TryLock(_ string) (Locker, error) {
	return nopLock{}, nil
}
