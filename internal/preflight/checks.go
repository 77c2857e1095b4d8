package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// CheckCompiler verifies that the Inform binary exists and is executable.
// Bare names are resolved through $PATH.
func CheckCompiler(binary string) Result {
	const name = "Inform compiler"

	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%v (use --informbin or compiler.binary)", errNotConfigured)}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("Inform binary not found: %s", binary)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckTempDir verifies the compiler's temporary directory.
func CheckTempDir(path string) Result {
	const name = "Temporary directory"

	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%v (use --tmpdir or compiler.temp_dir)", errNotConfigured)}
	}
	return CheckDirectoryAccess(name, path)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
