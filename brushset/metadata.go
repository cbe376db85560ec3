package brushset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dendrascience/brushsetmaker/internal/fsx"
	"github.com/google/uuid"
	"howett.net/plist"
)

// MetadataFile is the fixed name of the metadata property list inside a
// brushset folder.
const MetadataFile = "brushset.plist"

// Origin tells where LoadMetadata got its record from. It is not part of the
// record itself.
type Origin string

const (
	OriginLoaded      Origin = "loaded"
	OriginSynthesized Origin = "synthesized"
)

// brushIDGroups are the group lengths of a brush folder name, 8-4-4-4-12.
var brushIDGroups = [...]int{8, 4, 4, 4, 12}

// Metadata is the content of brushset.plist.
//
// Only Name is meant to be edited. Brushes is written back exactly as it was
// loaded or synthesized.
type Metadata struct {
	Name    string   `plist:"name" json:"name"`
	Brushes []string `plist:"brushes" json:"brushes"`
}

// WithName returns a copy of m with its name replaced.
func (m Metadata) WithName(name string) Metadata {
	m.Brushes = slices.Clone(m.Brushes)
	m.Name = name
	return m
}

// MetadataPath returns the location of brushset.plist inside dir.
func MetadataPath(dir string) string {
	return filepath.Join(dir, MetadataFile)
}

// IsBrushID reports whether name has the shape of a brush folder: five
// hyphen separated groups of 8, 4, 4, 4 and 12 hexadecimal digits.
func IsBrushID(name string) bool {
	groups := strings.Split(name, "-")
	if len(groups) != len(brushIDGroups) {
		return false
	}
	for i, g := range groups {
		if len(g) != brushIDGroups[i] {
			return false
		}
	}
	// uuid.Validate checks the hex digits; the version and variant nibbles
	// are not constrained.
	return uuid.Validate(name) == nil
}

// LoadMetadata returns the metadata for dir and where it came from. It never
// fails: a missing or malformed brushset.plist falls back to
// SynthesizeMetadata.
func LoadMetadata(dir string) (Metadata, Origin) {
	m, err := ReadMetadata(dir)
	if err != nil {
		return SynthesizeMetadata(dir), OriginSynthesized
	}
	return m, OriginLoaded
}

// ReadMetadata reads brushset.plist from dir without any fallback.
func ReadMetadata(dir string) (Metadata, error) {
	path := MetadataPath(dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Metadata{}, &PathError{Op: "read", Path: path, Err: ErrNotFound}
	}
	if err != nil {
		return Metadata{}, ioError("read", path, err)
	}
	m, err := DecodeMetadata(data)
	if err != nil {
		return Metadata{}, &PathError{Op: "decode", Path: path, Err: err}
	}
	return m, nil
}

// DecodeMetadata parses a binary or XML property list.
func DecodeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if _, err := plist.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	if m.Name == "" {
		return Metadata{}, fmt.Errorf("%w: missing name", ErrInvalidMetadata)
	}
	if m.Brushes == nil {
		m.Brushes = []string{}
	}
	return m, nil
}

// SynthesizeMetadata builds a record from dir itself: the folder's base name
// and the sorted names of its immediate sub-directories that look like brush
// IDs.
func SynthesizeMetadata(dir string) Metadata {
	m := Metadata{
		Name:    filepath.Base(filepath.Clean(dir)),
		Brushes: []string{},
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return m
	}
	for _, e := range entries {
		if e.IsDir() && IsBrushID(e.Name()) {
			m.Brushes = append(m.Brushes, e.Name())
		}
	}
	slices.Sort(m.Brushes)
	return m
}

// EncodeMetadata renders m as an indented XML property list.
func EncodeMetadata(m Metadata) ([]byte, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidMetadata)
	}
	if m.Brushes == nil {
		m.Brushes = []string{}
	}
	return plist.MarshalIndent(m, plist.XMLFormat, "\t")
}

// SaveMetadata writes m to dir/brushset.plist, replacing any existing file
// atomically.
func SaveMetadata(dir string, m Metadata) error {
	path := MetadataPath(dir)
	data, err := EncodeMetadata(m)
	if err != nil {
		return &PathError{Op: "encode", Path: path, Err: err}
	}
	if err := fsx.WriteFileAtomic(path, data, 0o644); err != nil {
		return ioError("write", path, err)
	}
	return nil
}
