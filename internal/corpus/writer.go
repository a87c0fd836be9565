package corpus

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
)

// Lines renders segments as output lines: tokens joined by single spaces.
func Lines(segments [][]string) []string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = strings.Join(seg, " ")
	}
	return out
}

// Write writes one line per segment to w.
func Write(w io.Writer, segments [][]string) error {
	bw := bufio.NewWriter(w)
	for _, line := range Lines(segments) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteAlignment writes segments to path. The file is replaced atomically
// while holding <path>.lock; a concurrent writer gets ERR_204.
func WriteAlignment(path string, segments [][]string) error {
	lock := NewFileLock(path)
	acquired, err := lock.TryLock()
	if err != nil {
		return writeError(path, err)
	}
	if !acquired {
		return amerrors.New(amerrors.ErrCodeFileLocked, "output file is being written by another process: "+path, nil).
			WithDetail("lock", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return writeError(path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, segments); err != nil {
		_ = tmp.Close()
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return writeError(path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return writeError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) error {
	code := amerrors.ErrCodeFileWrite
	if errors.Is(err, fs.ErrPermission) {
		code = amerrors.ErrCodeFilePermission
	}
	return amerrors.New(code, "failed to write "+path, err).WithDetail("path", path)
}
