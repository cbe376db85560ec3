package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brushID = "A1B2C3D4-E5F6-A7B8-C9D0-112233445566"

func brushFolder(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Watercolour")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, brushID), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	return dir
}

func TestMetaShow_Synthesized(t *testing.T) {
	dir := brushFolder(t)

	out, err := execute(t, configPath(t), "meta", "show", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Name:    Watercolour")
	assert.Contains(t, out, "Origin:  synthesized")
	assert.Contains(t, out, "Brushes: 1")
	assert.Contains(t, out, brushID)

	out, err = execute(t, configPath(t), "meta", "show", dir, "--json")
	require.NoError(t, err)
	var m metaView
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "Watercolour", m.Name)
	assert.Equal(t, []string{brushID}, m.Brushes)
	assert.Equal(t, brushset.OriginSynthesized, m.Origin)
}

func TestMetaSetName(t *testing.T) {
	dir := brushFolder(t)
	cfg := configPath(t)

	out, err := execute(t, cfg, "meta", "set-name", dir, "Wet Edges")
	require.NoError(t, err)
	assert.Contains(t, out, `name "Wet Edges", 1 brushes`)

	m, err := brushset.ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "Wet Edges", m.Name)
	assert.Equal(t, []string{brushID}, m.Brushes)

	out, err = execute(t, cfg, "meta", "show", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Origin:  loaded")
}

func TestMetaSetName_Errors(t *testing.T) {
	cfg := configPath(t)

	_, err := execute(t, cfg, "meta", "set-name", filepath.Join(t.TempDir(), "missing"), "x")
	require.ErrorIs(t, err, brushset.ErrNotFound)

	_, err = execute(t, cfg, "meta", "set-name", brushFolder(t), "")
	require.Error(t, err)
}

func TestMetaShow_CorruptFileFallsBack(t *testing.T) {
	dir := brushFolder(t)
	require.NoError(t, os.WriteFile(brushset.MetadataPath(dir), []byte("garbage"), 0o644))

	out, err := execute(t, configPath(t), "meta", "show", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Origin:  synthesized")
}

func TestMetaInit(t *testing.T) {
	dir := brushFolder(t)
	cfg := configPath(t)

	_, err := execute(t, cfg, "meta", "init", dir)
	require.NoError(t, err)
	m, err := brushset.ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "Watercolour", m.Name)

	_, err = execute(t, cfg, "meta", "init", dir)
	require.ErrorIs(t, err, os.ErrExist)

	_, err = execute(t, cfg, "meta", "init", dir, "--force")
	require.NoError(t, err)
}
