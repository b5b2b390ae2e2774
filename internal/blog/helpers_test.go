package blog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// baseTime is far enough in the past that nothing in a test touches it by
// accident.
var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// writePost writes content to dir/name with its mtime set to baseTime+offset.
func writePost(t *testing.T, dir, name, content string, offset time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mtime := baseTime.Add(offset)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}
