package brushset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Extension is the file extension of every archive this package writes.
	Extension = ".brushset"

	// DefaultNameTemplate names an archive after its folder.
	DefaultNameTemplate = "{folder_name}"

	maxRenameAttempts = 1000
)

// FormatName expands a name template for the given folder.
func FormatName(template, folder string, now time.Time) string {
	if strings.TrimSpace(template) == "" {
		return folder
	}
	name := strings.NewReplacer(
		"{folder_name}", folder,
		"{date}", now.Format("2006-01-02"),
		"{datetime}", now.Format("2006-01-02 15:04"),
	).Replace(template)
	// a template must never climb out of the output directory
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, string(filepath.Separator), "-")
	if name == "" || name == "." || name == ".." {
		return folder
	}
	return name
}

// WithExtension makes sure path ends in .brushset, replacing any other
// extension it carries.
func WithExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == Extension {
		return path
	}
	return strings.TrimSuffix(path, ext) + Extension
}

// nextFreeName returns "<stem> (n).brushset" for the first n that is not taken.
func nextFreeName(path string) (string, error) {
	stem := strings.TrimSuffix(path, Extension)
	for i := 1; i <= maxRenameAttempts; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, Extension)
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", ioError("stat", candidate, err)
		}
	}
	return "", &PathError{Op: "rename", Path: path, Err: ErrExists}
}
