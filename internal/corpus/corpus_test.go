package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadReferences(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ref.txt", "The cat  sat .\n\n  it was\thappy .\n")

	refs, err := ReadReferences(path)

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"The", "cat", "sat", "."},
		{},
		{"it", "was", "happy", "."},
	}, refs)
}

func TestReadReferences_NoTrailingNewline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ref.txt", "a b\nc")

	refs, err := ReadReferences(path)

	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestReadReferences_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ref.txt", "")

	refs, err := ReadReferences(path)

	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestReadHypothesis_IgnoresLineStructure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hyp.txt", "the cat\nsat .  it\n\nwas happy .")

	hyp, err := ReadHypothesis(path)

	require.NoError(t, err)
	assert.Equal(t, strings.Fields("the cat sat . it was happy ."), hyp)
}

func TestRead_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")

	_, err := ReadReferences(missing)
	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeFileNotFound, amerrors.GetCode(err))
	assert.True(t, amerrors.IsFatal(err))

	_, err = ReadHypothesis(missing)
	assert.Equal(t, amerrors.ErrCodeFileNotFound, amerrors.GetCode(err))
}

func TestLines(t *testing.T) {
	got := Lines([][]string{{"a", "b"}, {"c"}, {}})

	assert.Equal(t, []string{"a b", "c", ""}, got)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, [][]string{{"a", "b"}, {"c"}}))

	assert.Equal(t, "a b\nc\n", buf.String())
}

func TestWriteAlignment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	err := WriteAlignment(path, [][]string{{"Hello", "world", "."}, {"Bye", "."}})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello world .\nBye .\n", string(data))

	tmps, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmps, "no temp files left behind")
}

func TestWriteAlignment_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	held := NewFileLock(path)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	err = WriteAlignment(path, [][]string{{"a"}})

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeFileLocked, amerrors.GetCode(err))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteAlignment_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sub", "out.txt")

	// The lock creates the directory, so the write goes through.
	err := WriteAlignment(path, [][]string{{"a"}})

	require.NoError(t, err)
}

func TestFileLock_UnlockIdempotent(t *testing.T) {
	l := NewFileLock(filepath.Join(t.TempDir(), "out.txt"))

	assert.NoError(t, l.Unlock())
	ok, err := l.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, l.IsLocked())
	assert.NoError(t, l.Unlock())
	assert.NoError(t, l.Unlock())
	assert.False(t, l.IsLocked())
	assert.True(t, strings.HasSuffix(l.Path(), "out.txt.lock"))
}
