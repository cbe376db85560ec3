package brushset

import (
	"github.com/charmbracelet/log"
)

// Method selects how archive entries are stored.
type Method string

const (
	MethodDeflate Method = "deflate"
	MethodStore   Method = "stored"
)

// Overwrite selects what happens when the target archive already exists.
type Overwrite string

const (
	OverwriteReplace Overwrite = "overwrite"
	OverwriteRename  Overwrite = "rename"
	OverwriteSkip    Overwrite = "skip"
)

// Compression levels accepted by the deflate compressor.
const (
	LevelStore   = 0
	LevelFast    = 1
	LevelNormal  = 6
	LevelMaximum = 9
)

// DefaultMaxErrors is how many per-unit error messages a Report keeps.
const DefaultMaxErrors = 5

// Options configures a Packager. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	Method Method
	Level  int

	// NameTemplate names the archive. It understands {folder_name}, {date}
	// and {datetime}.
	NameTemplate string

	// IncludeHidden keeps files and folders whose name starts with '.'.
	IncludeHidden bool
	// PreserveTimestamps stores each file's mtime instead of the packaging time.
	PreserveTimestamps bool
	// EmbedMetadata adds a synthesized brushset.plist entry when the folder
	// has none. The source folder itself is never written to.
	EmbedMetadata bool
	Overwrite     Overwrite

	// Bulk processing.
	SkipHidden  bool
	StopOnError bool
	MaxErrors   int
	WarnEmpty   bool

	Logger *log.Logger
}

// DefaultOptions mirrors the built-in settings defaults.
func DefaultOptions() Options {
	return Options{
		Method:        MethodDeflate,
		Level:         LevelNormal,
		NameTemplate:  DefaultNameTemplate,
		IncludeHidden: true,
		Overwrite:     OverwriteReplace,
		SkipHidden:    true,
		MaxErrors:     DefaultMaxErrors,
		WarnEmpty:     true,
	}
}
