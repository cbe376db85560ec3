// Package settings loads and saves the brushsetmaker settings file.
//
// Settings live in a flat JSON document at ~/.brushsetmaker/settings.json.
// Values missing from the file fall back to the built-in defaults, and every
// key can be overridden from the environment as BRUSHSETMAKER_<KEY>. Values
// are validated when loaded; an unknown compression level or policy is an
// error rather than a silent default.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/dendrascience/brushsetmaker/internal/fsx"
	"github.com/spf13/viper"
)

const (
	DirName   = ".brushsetmaker"
	FileName  = "settings.json"
	EnvPrefix = "BRUSHSETMAKER"
)

// Keys of the settings document.
const (
	KeyDefaultSaveLocation = "default_save_location"
	KeyOverwriteBehavior   = "overwrite_behavior"
	KeyCompressionLevel    = "compression_level"
	KeyCompressionMethod   = "compression_method"
	KeyNameTemplate        = "default_name_template"
	KeyEmbedMetadata       = "embed_metadata"
	KeyWarnEmptyFolders    = "warn_empty_folders"
	KeySkipHiddenFolders   = "skip_hidden_folders"
	KeyErrorHandling       = "error_handling"
	KeyGenerateReport      = "generate_report"
	KeyIncludeHiddenFiles  = "include_hidden_files"
	KeyPreserveTimestamps  = "preserve_timestamps"
	KeyMaxErrors           = "max_errors"
	KeyLoggingLevel        = "logging_level"
	KeyLogFile             = "log_file"
	KeyLogMaxSize          = "log_max_size"
	KeyLogMaxBackups       = "log_max_backups"
	KeyLogMaxAge           = "log_max_age"
)

// OverwritePrompt is accepted for settings files shared with interactive
// front ends. The CLI never asks, so it behaves like skip.
const OverwritePrompt = "prompt"

// ErrInvalid is returned for a settings file that cannot be read or holds
// values out of range.
var ErrInvalid = errors.New("invalid settings")

var (
	compressionLevels = map[string]int{
		"store":   brushset.LevelStore,
		"fast":    brushset.LevelFast,
		"normal":  brushset.LevelNormal,
		"maximum": brushset.LevelMaximum,
	}
	compressionMethods = []string{string(brushset.MethodDeflate), string(brushset.MethodStore)}
	overwriteBehaviors = []string{
		OverwritePrompt,
		string(brushset.OverwriteReplace),
		string(brushset.OverwriteRename),
		string(brushset.OverwriteSkip),
	}
	errorHandlings = []string{"continue", "stop"}
	loggingLevels  = []string{"none", "errors", "info", "debug"}
)

// Settings is the typed settings document.
type Settings struct {
	// Output & file management
	DefaultSaveLocation string `mapstructure:"default_save_location" json:"default_save_location"`
	OverwriteBehavior   string `mapstructure:"overwrite_behavior" json:"overwrite_behavior"`

	// Compression
	CompressionLevel  string `mapstructure:"compression_level" json:"compression_level"`
	CompressionMethod string `mapstructure:"compression_method" json:"compression_method"`

	// Metadata
	DefaultNameTemplate string `mapstructure:"default_name_template" json:"default_name_template"`
	EmbedMetadata       bool   `mapstructure:"embed_metadata" json:"embed_metadata"`

	// Bulk processing
	WarnEmptyFolders  bool   `mapstructure:"warn_empty_folders" json:"warn_empty_folders"`
	SkipHiddenFolders bool   `mapstructure:"skip_hidden_folders" json:"skip_hidden_folders"`
	ErrorHandling     string `mapstructure:"error_handling" json:"error_handling"`
	GenerateReport    bool   `mapstructure:"generate_report" json:"generate_report"`
	MaxErrors         int    `mapstructure:"max_errors" json:"max_errors"`

	// Advanced
	IncludeHiddenFiles bool   `mapstructure:"include_hidden_files" json:"include_hidden_files"`
	PreserveTimestamps bool   `mapstructure:"preserve_timestamps" json:"preserve_timestamps"`
	LoggingLevel       string `mapstructure:"logging_level" json:"logging_level"`
	LogFile            string `mapstructure:"log_file" json:"log_file"`
	LogMaxSize         int    `mapstructure:"log_max_size" json:"log_max_size"`
	LogMaxBackups      int    `mapstructure:"log_max_backups" json:"log_max_backups"`
	LogMaxAge          int    `mapstructure:"log_max_age" json:"log_max_age"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		OverwriteBehavior:   string(brushset.OverwriteReplace),
		CompressionLevel:    "normal",
		CompressionMethod:   string(brushset.MethodDeflate),
		DefaultNameTemplate: brushset.DefaultNameTemplate,
		WarnEmptyFolders:    true,
		SkipHiddenFolders:   true,
		ErrorHandling:       "continue",
		MaxErrors:           brushset.DefaultMaxErrors,
		IncludeHiddenFiles:  true,
		LoggingLevel:        "info",
		LogMaxSize:          10,
		LogMaxBackups:       3,
		LogMaxAge:           28,
	}
}

func defaultValues() map[string]any {
	d := Defaults()
	return map[string]any{
		KeyDefaultSaveLocation: d.DefaultSaveLocation,
		KeyOverwriteBehavior:   d.OverwriteBehavior,
		KeyCompressionLevel:    d.CompressionLevel,
		KeyCompressionMethod:   d.CompressionMethod,
		KeyNameTemplate:        d.DefaultNameTemplate,
		KeyEmbedMetadata:       d.EmbedMetadata,
		KeyWarnEmptyFolders:    d.WarnEmptyFolders,
		KeySkipHiddenFolders:   d.SkipHiddenFolders,
		KeyErrorHandling:       d.ErrorHandling,
		KeyGenerateReport:      d.GenerateReport,
		KeyIncludeHiddenFiles:  d.IncludeHiddenFiles,
		KeyPreserveTimestamps:  d.PreserveTimestamps,
		KeyMaxErrors:           d.MaxErrors,
		KeyLoggingLevel:        d.LoggingLevel,
		KeyLogFile:             d.LogFile,
		KeyLogMaxSize:          d.LogMaxSize,
		KeyLogMaxBackups:       d.LogMaxBackups,
		KeyLogMaxAge:           d.LogMaxAge,
	}
}

// Keys lists every settings key in sorted order.
func Keys() []string {
	return slices.Sorted(maps.Keys(defaultValues()))
}

// DefaultPath returns ~/.brushsetmaker/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName, FileName), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for k, val := range defaultValues() {
		v.SetDefault(k, val)
	}
	return v
}

func readInto(v *viper.Viper, path string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
}

func decode(v *viper.Viper, path string) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads the settings at path merged over the defaults. A missing file
// is not an error.
func Load(path string) (Settings, error) {
	v := newViper(path)
	if err := readInto(v, path); err != nil {
		return Settings{}, err
	}
	return decode(v, path)
}

// Save writes the complete settings document to path, replacing whatever
// was there. The parent directory is created if needed.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsx.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// Set changes one key in the settings file at path and saves it. String
// values are converted to the key's type.
func Set(path, key, value string) (Settings, error) {
	if _, known := defaultValues()[key]; !known {
		return Settings{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
	v := newViper(path)
	if err := readInto(v, path); err != nil {
		return Settings{}, err
	}
	v.Set(key, value)
	s, err := decode(v, path)
	if err != nil {
		return Settings{}, err
	}
	return s, Save(path, s)
}

// Validate checks every enumerated value and range.
func (s Settings) Validate() error {
	var errs []error
	if _, ok := compressionLevels[s.CompressionLevel]; !ok {
		errs = append(errs, oneOf(KeyCompressionLevel, s.CompressionLevel, slices.Sorted(maps.Keys(compressionLevels))))
	}
	check := func(key, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, oneOf(key, value, allowed))
		}
	}
	check(KeyCompressionMethod, s.CompressionMethod, compressionMethods)
	check(KeyOverwriteBehavior, s.OverwriteBehavior, overwriteBehaviors)
	check(KeyErrorHandling, s.ErrorHandling, errorHandlings)
	check(KeyLoggingLevel, s.LoggingLevel, loggingLevels)
	if s.MaxErrors < 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalid, KeyMaxErrors, s.MaxErrors))
	}
	for key, n := range map[string]int{
		KeyLogMaxSize:    s.LogMaxSize,
		KeyLogMaxBackups: s.LogMaxBackups,
		KeyLogMaxAge:     s.LogMaxAge,
	} {
		if n < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, key, n))
		}
	}
	return errors.Join(errs...)
}

func oneOf(key, value string, allowed []string) error {
	return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalid, key, strings.Join(allowed, ", "), value)
}

// Level returns the deflate level for CompressionLevel.
func (s Settings) Level() int {
	return compressionLevels[s.CompressionLevel]
}

// PackagerOptions maps the settings onto brushset.Options. The caller sets
// the logger.
func (s Settings) PackagerOptions() brushset.Options {
	opts := brushset.DefaultOptions()
	opts.Method = brushset.Method(s.CompressionMethod)
	opts.Level = s.Level()
	opts.NameTemplate = s.DefaultNameTemplate
	opts.IncludeHidden = s.IncludeHiddenFiles
	opts.PreserveTimestamps = s.PreserveTimestamps
	opts.EmbedMetadata = s.EmbedMetadata
	opts.Overwrite = brushset.Overwrite(s.OverwriteBehavior)
	if s.OverwriteBehavior == OverwritePrompt {
		opts.Overwrite = brushset.OverwriteSkip
	}
	opts.SkipHidden = s.SkipHiddenFolders
	opts.StopOnError = s.ErrorHandling == "stop"
	opts.MaxErrors = s.MaxErrors
	opts.WarnEmpty = s.WarnEmptyFolders
	return opts
}
