package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, filepath.Join("/home/tester", ".amanalign", "logs"), DefaultLogDir())
	assert.Equal(t, filepath.Join("/home/tester", ".amanalign", "logs", "align.log"), DefaultLogPath())
}

func TestConfigs(t *testing.T) {
	def := DefaultConfig()
	assert.Equal(t, "warn", def.Level)
	assert.Empty(t, def.FilePath)
	assert.True(t, def.WriteToStderr)

	dbg := DebugConfig()
	assert.Equal(t, "debug", dbg.Level)
	assert.Equal(t, DefaultLogPath(), dbg.FilePath)
	assert.False(t, dbg.WriteToStderr)
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	// Given: a file-only debug config in a temp dir
	path := filepath.Join(t.TempDir(), "nested", "align.log")
	cfg := Config{Level: "debug", FilePath: path, MaxSizeMB: 1, MaxFiles: 2}

	// When: logging through the returned logger
	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	logger.Debug("align_started", slog.Int("references", 3))
	cleanup()

	// Then: the record is in the file as JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"align_started"`)
	assert.Contains(t, string(data), `"references":3`)
}

func TestSetup_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "align.log")
	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestFindLogFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := FindLogFile("")
	assert.Error(t, err)

	_, err = FindLogFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	got, err := FindLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestRotatingWriter_Rotation(t *testing.T) {
	// Given: a 1MB writer keeping two rotated files
	path := filepath.Join(t.TempDir(), "align.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	// When: writing well over 3MB in 512KB chunks
	chunk := bytes.Repeat([]byte("x"), 512*1024)
	for i := 0; i < 8; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: only the current file and two rotated files remain
	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1024*1024))
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "align.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := NewRotatingWriter(path, 0, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "closing twice is safe")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "align.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = fmt.Fprintf(w, "worker %d line %d\n", i, j)
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 400, strings.Count(string(data), "\n"))
}

func TestViewer_TailFiltersAndFormats(t *testing.T) {
	// Given: a log with mixed levels and a non-JSON line
	path := filepath.Join(t.TempDir(), "align.log")
	content := strings.Join([]string{
		`{"time":"2026-01-02T10:00:00.000Z","level":"DEBUG","msg":"align_best_improved","aligned":2}`,
		`{"time":"2026-01-02T10:00:01.000Z","level":"INFO","msg":"align_restart","restarts":1,"best_aligned":4}`,
		`not json`,
		`{"time":"2026-01-02T10:00:02.000Z","level":"WARN","msg":"align_failed","restarts":3}`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var out bytes.Buffer
	v := NewViewer(ViewerConfig{Level: "info", NoColor: true}, &out)

	// When: tailing the last three lines
	entries, err := v.Tail(path, 3)
	require.NoError(t, err)
	v.Print(entries)

	// Then: the debug line is outside the window, the raw line passes through
	require.Len(t, entries, 3)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "10:00:01.000 INFO  align_restart best_aligned=4 restarts=1", lines[0])
	assert.Equal(t, "not json", lines[1])
	assert.Equal(t, "10:00:02.000 WARN  align_failed restarts=3", lines[2])
}

func TestViewer_PatternFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "align.log")
	content := `{"level":"INFO","msg":"align_restart"}` + "\n" + `{"level":"INFO","msg":"align_solution"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile("restart")}, &bytes.Buffer{})
	entries, err := v.Tail(path, 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "align_restart", entries[0].Msg)
}

func TestViewer_TailMissingFile(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	_, err := v.Tail(filepath.Join(t.TempDir(), "nope.log"), 10)

	assert.Error(t, err)
}
