package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp site directory and environment variables.
//
// The site layout is:
//
//	<Dir>/posts/            source directory
//	<Dir>/public/           output directory
//	<Dir>/html/index.html   homepage
//
// A project config pointing at it is written on creation.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// HomepageTemplate is the homepage NewCLI writes.
const HomepageTemplate = "<html>\n<p>Latest:<!-- latest -->none<!--END --></p>\n</html>\n"

// NewCLI creates a new test CLI with a temp site and a project config.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	c := &CLI{
		t:   t,
		Dir: t.TempDir(),
		// Keep the developer's global config out of tests.
		Env: map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	}

	c.WriteFile(".blogbuild.json", `{
	"source_dir": "posts",
	"output_dir": "public",
	"homepage": "html/index.html",
}`)
	c.WriteFile("html/index.html", HomepageTemplate)

	err := os.MkdirAll(c.SourceDir(), 0o755)
	if err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	return c
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "blogbuild" or "--cwd" - those are added automatically.
func (c *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"blogbuild", "--cwd", c.Dir}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, c.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (c *CLI) MustRun(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (c *CLI) MustFail(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code == 0 {
		c.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		c.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// SourceDir returns the path to the posts directory.
func (c *CLI) SourceDir() string {
	return filepath.Join(c.Dir, "posts")
}

// OutputDir returns the path to the rendered pages directory.
func (c *CLI) OutputDir() string {
	return filepath.Join(c.Dir, "public")
}

// Homepage returns the path to the homepage.
func (c *CLI) Homepage() string {
	return filepath.Join(c.Dir, "html", "index.html")
}

// WriteFile writes content to a path relative to Dir, creating parents.
func (c *CLI) WriteFile(rel, content string) string {
	c.t.Helper()

	path := filepath.Join(c.Dir, rel)

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		c.t.Fatalf("failed to create dir for %s: %v", rel, err)
	}

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		c.t.Fatalf("failed to write %s: %v", rel, err)
	}

	return path
}

// WritePost writes a post into the source directory with the given mtime.
func (c *CLI) WritePost(name, content string, mtime time.Time) string {
	c.t.Helper()

	path := c.WriteFile(filepath.Join("posts", name), content)

	err := os.Chtimes(path, mtime, mtime)
	if err != nil {
		c.t.Fatalf("failed to set mtime on %s: %v", name, err)
	}

	return path
}

// ReadFile returns the content of a path relative to Dir.
func (c *CLI) ReadFile(rel string) string {
	c.t.Helper()

	content, err := os.ReadFile(filepath.Join(c.Dir, rel))
	if err != nil {
		c.t.Fatalf("failed to read %s: %v", rel, err)
	}

	return string(content)
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
