package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/dendrascience/brushsetmaker/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, filepath.Join(root, "Alpha"), map[string]string{"a.png": "a", "x/b.png": "b"})
	writeTree(t, filepath.Join(root, "Beta"), map[string]string{"c.png": "c"})
	writeTree(t, filepath.Join(root, "_drafts"), map[string]string{"d.png": "d"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Gamma"), 0o755))
	return root
}

func TestBulk(t *testing.T) {
	root := bulkRoot(t)

	out, err := execute(t, configPath(t), "bulk", root)
	require.NoError(t, err)

	assert.Contains(t, out, "[1/3] Alpha: packaged 2 files")
	assert.Contains(t, out, "[2/3] Beta: packaged 1 files")
	assert.Contains(t, out, "[3/3] Gamma: empty, skipped")
	assert.Contains(t, out, "Successfully processed: 2")
	assert.Contains(t, out, "Skipped (empty): 1")
	assert.Contains(t, out, "TOTAL 3")

	assert.FileExists(t, filepath.Join(root, "Alpha.brushset"))
	assert.FileExists(t, filepath.Join(root, "Beta.brushset"))
	assert.NoFileExists(t, filepath.Join(root, "Gamma.brushset"))
	assert.NoFileExists(t, filepath.Join(root, "_drafts.brushset"))
	assert.NoFileExists(t, filepath.Join(root, brushset.ReportFile))
}

func TestBulk_Quiet(t *testing.T) {
	root := bulkRoot(t)
	out, err := execute(t, configPath(t), "bulk", root, "-q")
	require.NoError(t, err)
	assert.NotContains(t, out, "[1/3]")
	assert.Contains(t, out, "Successfully processed: 2")
}

func TestBulk_Report(t *testing.T) {
	root := bulkRoot(t)
	cfg := configPath(t)
	s := settings.Defaults()
	s.GenerateReport = true
	require.NoError(t, settings.Save(cfg, s))

	out, err := execute(t, cfg, "bulk", root)
	require.NoError(t, err)

	path := filepath.Join(root, brushset.ReportFile)
	assert.Contains(t, out, "Report written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep brushset.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 1, rep.SkippedEmpty)
	assert.Equal(t, 1, rep.Filtered)
	assert.Len(t, rep.Units, 3)

	custom := filepath.Join(t.TempDir(), "run.json")
	_, err = execute(t, configPath(t), "bulk", root, "--report", custom, "--overwrite", "overwrite")
	require.NoError(t, err)
	assert.FileExists(t, custom)
}

func TestBulk_NoFolders(t *testing.T) {
	out, err := execute(t, configPath(t), "bulk", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No folders to package")
}

func TestBulk_MissingRoot(t *testing.T) {
	_, err := execute(t, configPath(t), "bulk", filepath.Join(t.TempDir(), "gone"))
	require.ErrorIs(t, err, brushset.ErrNotFound)
}

func TestBulk_FailuresFailTheCommand(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs a platform that enforces directory permissions")
	}
	root := bulkRoot(t)
	locked := filepath.Join(root, "Broken", "locked")
	writeTree(t, locked, map[string]string{"f.png": "f"})
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	out, err := execute(t, configPath(t), "bulk", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 folders failed")
	assert.Contains(t, out, "Broken: failed")
	assert.Contains(t, out, "[4/4] Gamma: empty, skipped")
	assert.FileExists(t, filepath.Join(root, "Beta.brushset"))

	out, err = execute(t, configPath(t), "bulk", root, "--stop-on-error", "--overwrite", "overwrite")
	require.Error(t, err)
	assert.Contains(t, out, "Stopped after the first failure")
}
