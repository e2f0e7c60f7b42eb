package cmd

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/logging"
)

func writeLog(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func writeGzipLog(t *testing.T, dir, name, content string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o600))
}

func TestGetLogFiles_CurrentFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeLog(t, dir, logging.DefaultLogFileName, "current\n", now.Add(-time.Hour))
	writeLog(t, dir, logging.DefaultLogFileName+".2025-01-01-10-00-00", "old\n", now.Add(-48*time.Hour))
	writeLog(t, dir, logging.DefaultLogFileName+".2025-01-02-10-00-00", "newer\n", now.Add(-24*time.Hour))
	writeLog(t, dir, "unrelated.txt", "x\n", now)

	files, err := getLogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.True(t, files[0].Current)
	assert.Equal(t, logging.DefaultLogFileName+".2025-01-02-10-00-00", files[1].Name)
	assert.Equal(t, logging.DefaultLogFileName+".2025-01-01-10-00-00", files[2].Name)
}

func TestGetLogFiles_MissingDir(t *testing.T) {
	files, err := getLogFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindLogFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeLog(t, dir, logging.DefaultLogFileName, "", now)
	writeLog(t, dir, logging.DefaultLogFileName+".2025-01-01-10-00-00", "", now)
	writeLog(t, dir, logging.DefaultLogFileName+".2025-01-02-10-00-00", "", now)

	f, err := findLogFile(dir, "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, logging.DefaultLogFileName+".2025-01-02-10-00-00", f.Name)

	_, err = findLogFile(dir, "2025-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple log files")

	_, err = findLogFile(dir, "1999")
	require.Error(t, err)
}

func TestShowLog_TailAndGzip(t *testing.T) {
	dir := t.TempDir()
	theme := styles.NewTheme(true)

	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "line-"+string(rune('0'+i)))
	}
	content := strings.Join(lines, "\n") + "\n"
	writeGzipLog(t, dir, logging.DefaultLogFileName+".2025-01-01-10-00-00.gz", content)

	files, err := getLogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].Compressed())

	var out bytes.Buffer
	require.NoError(t, showLog(&out, files[0], 3, theme))
	assert.Equal(t, "line-7\nline-8\nline-9\n", out.String())
}

func TestColorizeLogLine_JSON(t *testing.T) {
	theme := styles.NewTheme(true)
	line := `{"level":"warn","time":"2025-01-02T10:11:12Z","component":"console","error":"boom","message":"action failed"}`

	got := colorizeLogLine(line, theme)
	assert.Contains(t, got, "WRN")
	assert.Contains(t, got, "[console]")
	assert.Contains(t, got, "action failed")
	assert.Contains(t, got, "boom")
}

func TestClearLogBackups(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	current := writeLog(t, dir, logging.DefaultLogFileName, "", now.Add(-30*24*time.Hour))
	old := writeLog(t, dir, logging.DefaultLogFileName+".old", "", now.Add(-10*24*time.Hour))
	recent := writeLog(t, dir, logging.DefaultLogFileName+".recent", "", now.Add(-time.Hour))

	var out bytes.Buffer
	removed, err := clearLogBackups(&out, dir, now.AddDate(0, 0, -7), false, styles.NewTheme(true))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.FileExists(t, current)
	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)

	removed, err = clearLogBackups(&out, dir, now.AddDate(0, 0, -7), true, styles.NewTheme(true))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.FileExists(t, current, "the current log is never removed")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KiB", formatSize(1536))
	assert.Equal(t, "10.0 MiB", formatSize(10*1024*1024))
}
