package handlers

import (
	"errors"
	"os"
)

// budgetsBaseDir returns the base directory for uploaded budget workbooks.
// Defaults to ./storage/budgets when BUDGETS_DIR is not set.
func budgetsBaseDir() string {
	if v := os.Getenv("BUDGETS_DIR"); v != "" {
		return v
	}
	return "./storage/budgets"
}

// ensureDir guarantees the directory exists. Errors if the path exists and
// is a regular file.
func ensureDir(path string) error {
	if path == "" {
		return errors.New("empty dir path")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.New("path exists and is not a directory")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}
