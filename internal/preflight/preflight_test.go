package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCompiler(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "inform6")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	if r := CheckCompiler(present); !r.Passed || r.Detail != present {
		t.Fatalf("expected absolute path to pass, got %+v", r)
	}

	t.Setenv("PATH", binDir)
	if r := CheckCompiler("inform6"); !r.Passed {
		t.Fatalf("expected PATH lookup to pass, got %+v", r)
	}

	if r := CheckCompiler("clearly-not-present-inform"); r.Passed {
		t.Fatal("expected missing binary to fail")
	} else if !strings.Contains(r.Detail, "not found") {
		t.Fatalf("unexpected detail: %s", r.Detail)
	}

	if r := CheckCompiler(""); r.Passed || !strings.Contains(r.Detail, "--informbin") {
		t.Fatalf("expected unconfigured binary to fail with hint, got %+v", r)
	}
}

func TestRunAllAndFirstFailure(t *testing.T) {
	binDir := t.TempDir()
	bin := filepath.Join(binDir, "inform")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	ok := RunAll(Settings{CompilerBinary: bin, TempDir: t.TempDir()})
	if len(ok) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ok))
	}
	if err := FirstFailure(ok); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}

	missingTmp := RunAll(Settings{CompilerBinary: bin, TempDir: filepath.Join(binDir, "missing"), OutputDir: t.TempDir()})
	if len(missingTmp) != 3 {
		t.Fatalf("expected output dir check, got %d results", len(missingTmp))
	}
	err := FirstFailure(missingTmp)
	if err == nil || !strings.Contains(err.Error(), "Temporary directory") {
		t.Fatalf("expected temp dir failure, got %v", err)
	}
	if !Failed(missingTmp) {
		t.Fatal("expected Failed to report the temp dir failure")
	}
}
