package pathutils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FindModuleRoot returns the root directory of the Go module enclosing the
// current working directory.
func FindModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get current working directory")
	}
	return FindModuleRootFrom(dir)
}

// FindModuleRootFrom returns the absolute path to the module's root directory by
// searching for a go.mod file in dir and its parent directories.
// A directory named go.mod does not count.
func FindModuleRootFrom(dir string) (string, error) {
	dir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dir)
	}
	for {
		goModPath := filepath.Join(dir, "go.mod")
		fi, err := os.Stat(goModPath)
		switch {
		case err == nil && !fi.IsDir():
			return dir, nil
		case err != nil && !os.IsNotExist(err):
			return "", errors.Wrapf(err, "failed to stat %s", goModPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("go.mod not found in directory tree")
}
