package brushset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type sourceFile struct {
	abs  string
	rel  string // slash separated, relative to the source root
	info fs.FileInfo
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// checkSourceDir maps a missing or unreadable source onto ErrNotFound.
func checkSourceDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &PathError{Op: "open", Path: dir, Err: ErrNotFound}
	}
	if err != nil {
		return &PathError{Op: "open", Path: dir, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}
	if !info.IsDir() {
		return &PathError{Op: "open", Path: dir, Err: ErrExpectedDirectory}
	}
	return nil
}

// walkSource lists every regular file under root in lexical order. A
// symlinked root is followed, and so is a symlink to a regular file, whose
// target's content is archived under the link's name. Symlinked directories
// are not entered. skip, when non-nil, is a file left out of the listing: an
// existing archive that lives inside the folder it packages.
func walkSource(root string, includeHidden bool, skip fs.FileInfo) ([]sourceFile, error) {
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &PathError{Op: "open", Path: root, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}

	var files []sourceFile
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return &PathError{Op: "open", Path: root, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
			}
			return ioError("walk", path, err)
		}
		if path == walkRoot {
			return nil
		}
		if !includeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		var info fs.FileInfo
		switch {
		case d.Type().IsRegular():
			if info, err = d.Info(); err != nil {
				return ioError("stat", path, err)
			}
		case d.Type()&fs.ModeSymlink != 0:
			// dangling links and links to anything but a file are left out
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		default:
			return nil
		}
		if skip != nil && os.SameFile(info, skip) {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return ioError("walk", path, err)
		}
		files = append(files, sourceFile{
			abs:  filepath.Join(root, rel),
			rel:  filepath.ToSlash(rel),
			info: namedInfo{FileInfo: info, name: d.Name()},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// namedInfo reports a followed symlink's target under the link's own name.
type namedInfo struct {
	fs.FileInfo
	name string
}

func (n namedInfo) Name() string { return n.name }

// CountFiles returns how many files Package would put into an archive of dir.
func CountFiles(dir string, includeHidden bool) (int, error) {
	dir = filepath.Clean(dir)
	if err := checkSourceDir(dir); err != nil {
		return 0, err
	}
	files, err := walkSource(dir, includeHidden, nil)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}
