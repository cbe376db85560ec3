// Package fsx holds the small filesystem helpers shared by the packager,
// the metadata store and the settings file.
package fsx

import (
	"os"
	"path/filepath"
	"runtime"
)

// TempPattern returns the os.CreateTemp pattern used for a file that will
// later be renamed to name. The leading dot keeps it out of directory listings
// and out of the hidden-aware walkers.
func TempPattern(name string) string {
	return "." + name + ".tmp-*"
}

// WriteFileAtomic writes data to path by way of a temporary file in the same
// directory followed by a rename, replacing any existing file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, TempPattern(filepath.Base(path)))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	_ = SyncDir(dir)
	return nil
}

// SyncDir fsyncs a directory so a preceding rename is durable. It is a no-op
// on Windows, where directories cannot be opened for sync.
func SyncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
