package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/dendrascience/brushsetmaker/internal/settings"
	"github.com/dendrascience/brushsetmaker/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.png":         "a",
		"b/c.png":       "c",
		".git/config":   "x",
		"b/.DS_Store":   "x",
		"b/d/e/f/g.png": "g",
	})

	out, err := execute(t, configPath(t), "count", dir)
	require.NoError(t, err)
	assert.Equal(t, "Total files: 5\n", out)

	out, err = execute(t, configPath(t), "count", "--path", dir, "--no-hidden")
	require.NoError(t, err)
	assert.Equal(t, "Total files: 3\n", out)

	_, err = execute(t, configPath(t), "count", filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, brushset.ErrNotFound)
}

func TestSeedThenBulk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")
	cfg := configPath(t)

	out, err := execute(t, cfg, "seed", "-o", dir, "--sets", "2", "--brushes", "3", "--empty", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 2 sets")

	m, err := brushset.ReadMetadata(filepath.Join(dir, "Sample Set 1"))
	require.NoError(t, err)
	assert.Len(t, m.Brushes, 3)
	for _, id := range m.Brushes {
		assert.True(t, brushset.IsBrushID(id), id)
	}

	out, err = execute(t, cfg, "bulk", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully processed: 2")
	assert.Contains(t, out, "Skipped (empty): 1")

	// 3 brushes with 3 files each, plus brushset.plist
	n, err := brushset.CountEntries(filepath.Join(dir, "Sample Set 2.brushset"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestSeed_RequiresOutput(t *testing.T) {
	_, err := execute(t, configPath(t), "seed")
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nested", "settings.json")

	out, err := execute(t, cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)

	out, err = execute(t, cfg, "config", "show")
	require.NoError(t, err)
	var shown settings.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, settings.Defaults(), shown)

	_, err = execute(t, cfg, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, cfg)

	_, err = execute(t, cfg, "config", "init")
	require.ErrorIs(t, err, os.ErrExist)

	out, err = execute(t, cfg, "config", "set", "compression_level", "maximum")
	require.NoError(t, err)
	assert.Equal(t, "compression_level = maximum\n", out)

	loaded, err := settings.Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, "maximum", loaded.CompressionLevel)

	_, err = execute(t, cfg, "config", "set", "compression_level", "ludicrous")
	require.ErrorIs(t, err, settings.ErrInvalid)
}

func TestConfig_InitRepairsBrokenFile(t *testing.T) {
	cfg := configPath(t)
	require.NoError(t, os.WriteFile(cfg, []byte("{ broken"), 0o644))

	_, err := execute(t, cfg, "config", "show")
	require.ErrorIs(t, err, settings.ErrInvalid)

	_, err = execute(t, cfg, "config", "init", "--force")
	require.NoError(t, err)

	_, err = execute(t, cfg, "config", "show")
	require.NoError(t, err)
}

func TestConfig_EnvPath(t *testing.T) {
	cfg := configPath(t)
	t.Setenv(ConfigEnv, cfg)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "path"})
	require.NoError(t, root.Execute())
	assert.Equal(t, cfg, strings.TrimSpace(out.String()))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, configPath(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "brushsetmaker version")
}

func TestVersion_JSON(t *testing.T) {
	out, err := execute(t, configPath(t), "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Version)
	assert.Contains(t, info.Compressor, "github.com/klauspost/compress")
}

func TestVersion_BrokenSettings(t *testing.T) {
	cfg := configPath(t)
	require.NoError(t, os.WriteFile(cfg, []byte(`{"compression_level": "ultra"}`), 0o644))

	out, err := execute(t, cfg, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "brushsetmaker version")

	_, err = execute(t, cfg, "count", t.TempDir())
	require.ErrorIs(t, err, settings.ErrInvalid)
}

func TestExecute_ClosesLogFileOnFailure(t *testing.T) {
	if _, err := os.Stat("/proc/self/fd"); err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	dir := t.TempDir()
	cfg := filepath.Join(dir, "settings.json")
	logFile := filepath.Join(dir, "brushsetmaker.log")
	_, err := settings.Set(cfg, settings.KeyLogFile, logFile)
	require.NoError(t, err)

	_, err = execute(t, cfg, "pack", filepath.Join(dir, "missing"), "-v")
	require.ErrorIs(t, err, brushset.ErrNotFound)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "settings loaded")

	resolved, err := filepath.EvalSymlinks(logFile)
	require.NoError(t, err)
	assert.NotContains(t, openFiles(t), resolved)
}

func openFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", e.Name()))
		if err == nil {
			names = append(names, target)
		}
	}
	return names
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer

	s := settings.Defaults()
	s.LoggingLevel = "none"
	logger, closer := newLogger(&buf, s, false)
	logger.Error("dropped")
	require.NoError(t, closer.Close())
	assert.Empty(t, buf.String())

	s.LoggingLevel = "errors"
	logger, _ = newLogger(&buf, s, false)
	logger.Warn("too quiet")
	logger.Error("kept")
	assert.NotContains(t, buf.String(), "too quiet")
	assert.Contains(t, buf.String(), "kept")

	buf.Reset()
	logger, _ = newLogger(&buf, s, true)
	logger.Debug("verbose wins")
	assert.Contains(t, buf.String(), "verbose wins")
}

func TestLogging_File(t *testing.T) {
	var buf bytes.Buffer
	s := settings.Defaults()
	s.LogFile = filepath.Join(t.TempDir(), "logs", "brushsetmaker.log")

	logger, closer := newLogger(&buf, s, false)
	logger.Info("to both", "n", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(s.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf)
	assert.False(t, p.color)

	p.OnUnitDone(1, 3, "A", brushset.UnitResult{Status: brushset.StatusPackaged, Entries: 7})
	p.OnUnitDone(2, 3, "B", brushset.UnitResult{Status: brushset.StatusEmpty})
	p.OnUnitDone(3, 3, "C", brushset.UnitResult{Status: brushset.StatusFailed, Error: "boom"})
	assert.Equal(t, "[1/3] A: packaged 7 files\n[2/3] B: empty, skipped\n[3/3] C: failed: boom\n", buf.String())
}

func TestTint(t *testing.T) {
	a := tint("Pencils")
	assert.Equal(t, a, tint("Pencils"))
	assert.True(t, strings.HasPrefix(a, "\x1b[38;5;"))
	assert.True(t, strings.HasSuffix(a, "Pencils\x1b[0m"))
}

func TestHides(t *testing.T) {
	tests := []struct {
		name       string
		mountpoint string
		archive    string
		want       bool
	}{
		{name: "archive directory", mountpoint: "/tmp/sets", archive: "/tmp/sets/a.brushset", want: true},
		{name: "ancestor", mountpoint: "/tmp", archive: "/tmp/sets/a.brushset", want: true},
		{name: "sub directory", mountpoint: "/tmp/sets/view", archive: "/tmp/sets/a.brushset", want: false},
		{name: "sibling", mountpoint: "/tmp/view", archive: "/tmp/sets/a.brushset", want: false},
		{name: "name prefix only", mountpoint: "/tmp/se", archive: "/tmp/sets/a.brushset", want: false},
		{name: "relative same", mountpoint: ".", archive: "a.brushset", want: true},
		{name: "relative sub", mountpoint: "view", archive: "a.brushset", want: false},
		{name: "dot dot prefixed name", mountpoint: "/tmp/sets/x", archive: "/tmp/sets/x/..a/b.brushset", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hides(tt.mountpoint, tt.archive))
		})
	}
}
