package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NUMNIMx/noteflow/pkg/adapters/fs"
)

// MarkerDir is a data directory nested in a project.
const MarkerDir = ".noteflow"

// FindRoot recursively looks upwards for a data directory.
// Indicators are: a .noteflow directory or the state file itself.
// The .noteflow directory, when found, is the data directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, MarkerDir) {
			return filepath.Join(dir, MarkerDir), nil
		}
		if hasFile(dir, fs.FileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no data directory above %s", abs)
}

// ResolveDataDir picks the data directory: an explicit dir wins, then a
// directory found by FindRoot from the working directory, then fallback.
func ResolveDataDir(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root
		}
	}
	return fallback
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
