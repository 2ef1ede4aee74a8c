package kdoc

import (
	"errors"
	"os"
	"path/filepath"
)

// ResolveSrcTree resolves path against srctree (the $srctree environment
// variable, or an explicit root passed by a caller), expanding a leading `~`
// to the user's home directory. An absolute path is returned unchanged.
func ResolveSrcTree(srctree, path string) (string, error) {
	path, err := ExpandHomeDir(path)
	if err != nil {
		return path, err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	if srctree == "" {
		srctree = os.Getenv("srctree")
	}
	if srctree == "" {
		return path, nil
	}
	return filepath.Join(srctree, path), nil
}

// ExpandHomeDir expands the path to include the home directory if the path is
// prefixed with `~`. If it isn't prefixed with `~`, the path is returned as-is.
func ExpandHomeDir(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return "", errors.New("cannot expand user-specific home dir")
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, path[1:]), nil
}
