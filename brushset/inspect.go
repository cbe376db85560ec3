package brushset

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"
)

// EntryInfo describes one entry of an existing archive.
type EntryInfo struct {
	Name           string
	Size           uint64
	CompressedSize uint64
	Method         uint16
	Modified       time.Time
}

func openArchive(path string) (*zip.ReadCloser, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Op: "open", Path: path, Err: ErrNotFound}
	}
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	return zrc, nil
}

// ListEntries returns the entries of the archive at path in stored order.
func ListEntries(path string) ([]EntryInfo, error) {
	zrc, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer zrc.Close()

	entries := make([]EntryInfo, 0, len(zrc.File))
	for _, f := range zrc.File {
		entries = append(entries, EntryInfo{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
			Modified:       f.Modified,
		})
	}
	return entries, nil
}

// CountEntries returns the number of entries in the archive at path.
func CountEntries(path string) (int, error) {
	zrc, err := openArchive(path)
	if err != nil {
		return 0, err
	}
	defer zrc.Close()
	return len(zrc.File), nil
}

// HasEntry reports whether the archive at path contains an entry called name.
func HasEntry(path, name string) (bool, error) {
	zrc, err := openArchive(path)
	if err != nil {
		return false, err
	}
	defer zrc.Close()
	for _, f := range zrc.File {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ArchiveMetadata decodes the brushset.plist entry of the archive at path.
// It returns ErrNotFound when the archive has no such entry.
func ArchiveMetadata(path string) (Metadata, error) {
	zrc, err := openArchive(path)
	if err != nil {
		return Metadata{}, err
	}
	defer zrc.Close()

	rc, err := zrc.Open(MetadataFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Metadata{}, &PathError{Op: "read", Path: path + ":" + MetadataFile, Err: ErrNotFound}
	}
	if err != nil {
		return Metadata{}, ioError("read", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Metadata{}, ioError("read", path, err)
	}
	m, err := DecodeMetadata(data)
	if err != nil {
		return Metadata{}, &PathError{Op: "decode", Path: path + ":" + MetadataFile, Err: err}
	}
	return m, nil
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
