package internal

import (
	"os"
	"path/filepath"
	"runtime"
)

// userDataPattern returns the glob pattern for VS Code user-data roots on the
// current platform. The wildcard covers editor variants ("Code",
// "Code - Insiders", "Code - Exploration") side by side.
func userDataPattern(home string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Code*", "User")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Code*", "User")
	default:
		// Linux and everything else that follows the XDG layout.
		return filepath.Join(home, ".config", "Code*", "User")
	}
}

// ResolveStorageRoots returns the existing VS Code user-data roots for the
// current platform, in glob order. A missing editor installation is not an
// error: the result is simply empty. When override is non-empty it is used
// instead of platform detection, still subject to the existence check.
func ResolveStorageRoots(override string) ([]string, error) {
	if override != "" {
		return existingDirs([]string{override}), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, &StorageError{Path: "~", Op: "detect", Err: err}
	}

	matches, err := filepath.Glob(userDataPattern(home))
	if err != nil {
		// Only malformed patterns error here; ours is fixed.
		return nil, &StorageError{Path: userDataPattern(home), Op: "glob", Err: err}
	}

	return existingDirs(matches), nil
}

// existingDirs filters paths down to those that exist and are directories.
func existingDirs(paths []string) []string {
	var roots []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		roots = append(roots, p)
	}
	return roots
}
