package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestFaulty_Passes_Through_When_No_Fault_Registered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")

	if err := os.WriteFile(path, []byte("# Title\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fs := NewFaulty(NewReal())

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "# Title\n"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}

	if got, want := fs.Injected(OpRead), 0; got != want {
		t.Fatalf("injected=%d, want=%d", got, want)
	}
}

func TestFaulty_Open_Returns_Injected_PathError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "post.md")

	fs := NewFaulty(NewReal())
	fs.Fail(OpOpen, path, syscall.EACCES)

	_, err := fs.Open(path)
	if !IsInjected(err) {
		t.Fatalf("err=%v, want injected", err)
	}

	if !errors.Is(err, syscall.EACCES) {
		t.Fatalf("err=%v, want EACCES", err)
	}

	if !os.IsPermission(errors.Unwrap(err)) {
		t.Fatalf("err=%v should satisfy os.IsPermission", err)
	}

	if got, want := fs.Injected(OpOpen), 1; got != want {
		t.Fatalf("injected=%d, want=%d", got, want)
	}
}

func TestFaulty_Read_Fails_On_Opened_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "post.md")

	if err := os.WriteFile(path, []byte("# Title\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fs := NewFaulty(NewReal())
	fs.Fail(OpRead, path, 0)

	f, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	defer func() { _ = f.Close() }()

	_, err = io.ReadAll(f)
	if !errors.Is(err, syscall.EIO) {
		t.Fatalf("err=%v, want EIO", err)
	}
}

func TestFaulty_DirEntry_Info_Fails_For_Registered_Entry_Only(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"a.md", "b.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	fs := NewFaulty(NewReal())
	fs.Fail(OpInfo, filepath.Join(dir, "b.md"), syscall.ENOENT)

	entries, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if got, want := len(entries), 2; got != want {
		t.Fatalf("entries=%d, want=%d", got, want)
	}

	if _, err := entries[0].Info(); err != nil {
		t.Fatalf("a.md Info: %v", err)
	}

	if _, err := entries[1].Info(); !os.IsNotExist(errors.Unwrap(err)) {
		t.Fatalf("b.md Info err=%v, want not-exist", err)
	}
}

func TestFaulty_Heal_Clears_Faults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	fs := NewFaulty(NewReal())
	fs.Fail(OpReadDir, dir, 0)

	if _, err := fs.ReadDir(dir); err == nil {
		t.Fatal("expected injected ReadDir error")
	}

	fs.Heal()

	if _, err := fs.ReadDir(dir); err != nil {
		t.Fatalf("ReadDir after Heal: %v", err)
	}
}

func TestFaulty_Paths_Are_Cleaned(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	fs := NewFaulty(NewReal())
	fs.Fail(OpWrite, dir+"/./index.html", 0)

	err := fs.WriteFileAtomic(path, []byte("x"), 0o644)
	if !IsInjected(err) {
		t.Fatalf("err=%v, want injected", err)
	}
}
