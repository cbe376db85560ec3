package brushset

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dendrascience/brushsetmaker/internal/fsx"
	"github.com/klauspost/compress/flate"
)

// Result describes one archive written by Package.
type Result struct {
	Source      string `json:"source"`
	ArchivePath string `json:"archive"`
	Entries     int    `json:"entries"`
	Bytes       int64  `json:"bytes"` // uncompressed
	SHA256      string `json:"sha256"`
}

// Packager turns folders into .brushset archives. It holds no per-run state
// and may be reused for any number of Package calls.
type Packager struct {
	opts Options
	log  *log.Logger
	now  func() time.Time
}

// NewPackager returns a Packager configured with opts.
func NewPackager(opts Options) *Packager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = DefaultMaxErrors
	}
	if opts.Method == "" {
		opts.Method = MethodDeflate
	}
	if opts.Overwrite == "" {
		opts.Overwrite = OverwriteReplace
	}
	return &Packager{opts: opts, log: logger, now: time.Now}
}

// Options returns the options the Packager was built with.
func (p *Packager) Options() Options {
	return p.opts
}

// ArchiveName returns the file name Package would use for sourceDir.
func (p *Packager) ArchiveName(sourceDir string) string {
	folder := filepath.Base(filepath.Clean(sourceDir))
	return FormatName(p.opts.NameTemplate, folder, p.now()) + Extension
}

// Package archives sourceDir into outputDir. An empty outputDir means the
// parent of sourceDir.
func (p *Packager) Package(ctx context.Context, sourceDir, outputDir string) (Result, error) {
	sourceDir = filepath.Clean(sourceDir)
	if outputDir == "" {
		outputDir = filepath.Dir(sourceDir)
	}
	return p.PackageTo(ctx, sourceDir, filepath.Join(outputDir, p.ArchiveName(sourceDir)))
}

// PackageTo archives sourceDir into archivePath. The .brushset extension is
// enforced on archivePath.
//
// A folder without regular files yields ErrEmpty and no file on disk. Any
// failure after the archive was started removes it before returning.
func (p *Packager) PackageTo(ctx context.Context, sourceDir, archivePath string) (Result, error) {
	sourceDir = filepath.Clean(sourceDir)
	archivePath = WithExtension(filepath.Clean(archivePath))

	if err := checkSourceDir(sourceDir); err != nil {
		return Result{}, err
	}

	existing, err := os.Stat(archivePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	case err != nil:
		return Result{}, ioError("stat", archivePath, err)
	case existing.IsDir():
		return Result{}, &PathError{Op: "create", Path: archivePath, Err: ErrExpectedFile}
	}

	files, err := walkSource(sourceDir, p.opts.IncludeHidden, existing)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, &PathError{Op: "package", Path: sourceDir, Err: ErrEmpty}
	}

	dest := archivePath
	if existing != nil {
		switch p.opts.Overwrite {
		case OverwriteSkip:
			return Result{}, &PathError{Op: "create", Path: archivePath, Err: ErrExists}
		case OverwriteRename:
			if dest, err = nextFreeName(archivePath); err != nil {
				return Result{}, err
			}
		}
	}

	res, err := p.write(ctx, sourceDir, dest, files)
	if err != nil {
		return Result{}, err
	}
	p.log.Debug("brushset written", "source", sourceDir, "archive", dest, "entries", res.Entries, "bytes", res.Bytes)
	return res, nil
}

func (p *Packager) write(ctx context.Context, sourceDir, dest string, files []sourceFile) (Result, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), fsx.TempPattern(filepath.Base(dest)))
	if err != nil {
		return Result{}, ioError("create", dest, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	res := Result{Source: sourceDir, ArchivePath: dest}
	h := sha256.New()
	zw := zip.NewWriter(io.MultiWriter(tmp, h))
	level := p.opts.Level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	hasMetadata := false
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, &PathError{Op: "package", Path: sourceDir, Err: err}
		}
		if f.rel == MetadataFile {
			hasMetadata = true
		}
		n, err := p.addFile(zw, f)
		if err != nil {
			return Result{}, ioError("write", dest, err)
		}
		res.Entries++
		res.Bytes += n
	}

	if p.opts.EmbedMetadata && !hasMetadata {
		n, err := p.addMetadata(zw, sourceDir)
		if err != nil {
			return Result{}, ioError("write", dest, err)
		}
		res.Entries++
		res.Bytes += n
	}

	if err := zw.Close(); err != nil {
		return Result{}, ioError("write", dest, err)
	}
	if err := tmp.Sync(); err != nil {
		return Result{}, ioError("sync", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, ioError("close", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return Result{}, ioError("rename", dest, err)
	}
	committed = true
	_ = fsx.SyncDir(filepath.Dir(dest))

	res.SHA256 = hex.EncodeToString(h.Sum(nil))
	return res, nil
}

func (p *Packager) method() uint16 {
	if p.opts.Method == MethodStore || p.opts.Level == LevelStore {
		return zip.Store
	}
	return zip.Deflate
}

func (p *Packager) addFile(zw *zip.Writer, f sourceFile) (int64, error) {
	hdr, err := zip.FileInfoHeader(f.info)
	if err != nil {
		return 0, err
	}
	hdr.Name = f.rel
	hdr.Method = p.method()
	if !p.opts.PreserveTimestamps {
		hdr.Modified = p.now()
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return 0, err
	}
	src, err := os.Open(f.abs)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return io.Copy(w, src)
}

func (p *Packager) addMetadata(zw *zip.Writer, sourceDir string) (int64, error) {
	data, err := EncodeMetadata(SynthesizeMetadata(sourceDir))
	if err != nil {
		return 0, err
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     MetadataFile,
		Method:   p.method(),
		Modified: p.now(),
	})
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
