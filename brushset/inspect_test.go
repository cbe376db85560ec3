package brushset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Textures")
	writeTree(t, src, map[string]string{
		"grain.png":         "grain",
		"shapes/round.png":  "round",
		"shapes/square.png": "square",
	})
	res, err := testPackager(t, nil).Package(context.Background(), src, "")
	require.NoError(t, err)

	entries, err := ListEntries(res.ArchivePath)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"grain.png", "shapes/round.png", "shapes/square.png"}, names)
	assert.Equal(t, uint64(len("square")), entries[2].Size)

	n, err := CountEntries(res.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := HasEntry(res.ArchivePath, "shapes/round.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasEntry(res.ArchivePath, "round.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ArchiveMetadata(res.ArchivePath)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ListEntries(filepath.Join(dir, "missing.brushset"))
	assert.ErrorIs(t, err, ErrNotFound)

	bogus := filepath.Join(dir, "bogus.brushset")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0o644))
	_, err = CountEntries(bogus)
	assert.ErrorIs(t, err, ErrIO)
}
