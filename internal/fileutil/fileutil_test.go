package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMD5Sum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.z5")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sum, err := MD5Sum(path)
	if err != nil {
		t.Fatalf("MD5Sum: %v", err)
	}
	if sum != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected digest %s", sum)
	}
}

func TestMD5SumMissingFile(t *testing.T) {
	if _, err := MD5Sum(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.js")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("expected new content, got %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.inf")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsRegularFile(path) {
		t.Fatal("expected regular file")
	}
	if IsRegularFile(dir) {
		t.Fatal("directory must not count as a regular file")
	}
	if IsRegularFile(filepath.Join(dir, "missing")) {
		t.Fatal("missing path must not count as a regular file")
	}
}
