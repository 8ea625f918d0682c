package browse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PackageScript is the grabbit-browse entry point inside node_modules.
const PackageScript = "node_modules/@cole-labs/grabbit-browser/bin/grabbit-browse.js"

// ErrBrowseNotFound is returned when no grabbit-browse script can be located.
var ErrBrowseNotFound = errors.New("could not find @cole-labs/grabbit-browser package")

// ResolveBrowsePath locates grabbit-browse. An explicit path must exist.
// Otherwise node_modules is searched upward from the working directory and
// from the executable's directory, then the development checkout next to
// the executable.
func ResolveBrowsePath(explicit string) (string, error) {
	cwd, _ := os.Getwd()

	var exeDir string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		exeDir = filepath.Dir(exe)
	}

	return findBrowsePath(explicit, cwd, exeDir)
}

func findBrowsePath(explicit, cwd, exeDir string) (string, error) {
	if explicit != "" {
		if !fileExists(explicit) {
			return "", fmt.Errorf("grabbit-browse not found at %s", explicit)
		}
		return explicit, nil
	}

	for _, root := range []string{cwd, exeDir} {
		if root == "" {
			continue
		}
		if p, ok := searchUp(root, PackageScript); ok {
			return p, nil
		}
	}

	if exeDir != "" {
		dev := filepath.Join(exeDir, "..", "browser", "bin", "grabbit-browse.js")
		if fileExists(dev) {
			return filepath.Clean(dev), nil
		}
	}

	return "", ErrBrowseNotFound
}

func searchUp(dir, rel string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, filepath.FromSlash(rel))
		if fileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
