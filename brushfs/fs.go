package brushfs

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/brushsetmaker/brushset"
)

var (
	_ fs.FS                 = (*FS)(nil)
	_ fs.Node               = (*Dir)(nil)
	_ fs.NodeStringLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller = (*Dir)(nil)
	_ fs.Node               = (*File)(nil)
	_ fs.HandleReadAller    = (*File)(nil)
)

// FS is a read-only view of one .brushset archive.
type FS struct {
	ArchivePath string
	reader      *zip.ReadCloser
	root        *Dir
	inodes      *inodeAllocator
}

// Dir is a directory inside the archive. Directories are implied by entry
// names; the archive does not need to store them.
type Dir struct {
	inode    uint64
	name     string
	modified time.Time
	children map[string]fs.Node
}

// File is a single archive entry.
type File struct {
	inode uint64
	entry *zip.File

	mu   sync.Mutex
	data []byte
}

// Open reads the archive's directory and builds the tree. The archive stays
// open until Close.
func Open(archivePath string) (*FS, error) {
	info, err := os.Stat(archivePath)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, &brushset.PathError{Op: "open", Path: archivePath, Err: brushset.ErrNotFound}
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &brushset.PathError{Op: "open", Path: archivePath, Err: brushset.ErrExpectedFile}
	}
	// insecure names are dropped by add, they do not make the archive unusable
	zrc, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, err
	}
	modified := info.ModTime()

	f := &FS{
		ArchivePath: archivePath,
		reader:      zrc,
		inodes:      newInodeAllocator(),
	}
	f.root = &Dir{inode: rootInode, modified: modified, children: map[string]fs.Node{}}
	for _, entry := range zrc.File {
		f.add(entry)
	}
	return f, nil
}

// Close releases the archive.
func (f *FS) Close() error {
	return f.reader.Close()
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return f.root, nil
}

// add places entry in the tree. Entries with unsafe names, explicit
// directory entries and names that clash with an existing node are ignored.
func (f *FS) add(entry *zip.File) {
	name := entry.Name
	if strings.HasSuffix(name, "/") || !safeName(name) {
		return
	}
	parts := strings.Split(name, "/")
	dir := f.root
	for _, part := range parts[:len(parts)-1] {
		next, ok := dir.children[part]
		if !ok {
			child := &Dir{
				inode:    f.inodes.next(),
				name:     part,
				modified: entry.Modified,
				children: map[string]fs.Node{},
			}
			dir.children[part] = child
			dir = child
			continue
		}
		child, isDir := next.(*Dir)
		if !isDir {
			return
		}
		dir = child
	}
	leaf := parts[len(parts)-1]
	if _, exists := dir.children[leaf]; exists {
		return
	}
	dir.children[leaf] = &File{inode: f.inodes.next(), entry: entry}
}

func safeName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	if path.Clean(name) != name {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." {
			return false
		}
	}
	return true
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.inode
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.modified
	a.Ctime = d.modified
	return nil
}

// Lookup resolves a name inside d.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if node, ok := d.children[name]; ok {
		return node, nil
	}
	return nil, syscall.ENOENT
}

// ReadDirAll lists d in name order.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	names := make([]string, 0, len(d.children))
	for name := range d.children {
		names = append(names, name)
	}
	sort.Strings(names)

	dirents := make([]fuse.Dirent, 0, len(names))
	for _, name := range names {
		switch node := d.children[name].(type) {
		case *Dir:
			dirents = append(dirents, fuse.Dirent{Inode: node.inode, Name: name, Type: fuse.DT_Dir})
		case *File:
			dirents = append(dirents, fuse.Dirent{Inode: node.inode, Name: name, Type: fuse.DT_File})
		}
	}
	return dirents, nil
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0o444
	a.Size = f.entry.UncompressedSize64
	a.Mtime = f.entry.Modified
	a.Ctime = f.entry.Modified
	return nil
}

// ReadAll decompresses the entry. The result is cached on the node.
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.data != nil {
		return f.data, nil
	}
	rc, err := f.entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	f.data = data
	return data, nil
}
