package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.amanalign/logs, or a directory under the temp
// dir when the home directory is unknown.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".amanalign", "logs")
	}
	return filepath.Join(home, ".amanalign", "logs")
}

// DefaultLogPath returns the debug log file.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "align.log")
}

// EnsureLogDir creates dir if it doesn't exist.
func EnsureLogDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// FindLogFile returns explicit if given, else the default log path, as
// long as the file exists.
func FindLogFile(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = DefaultLogPath()
	}
	if _, err := os.Stat(path); err != nil {
		if explicit != "" {
			return "", fmt.Errorf("log file not found: %s", explicit)
		}
		return "", fmt.Errorf("no log file found, run with --debug first (expected at %s)", path)
	}
	return path, nil
}
