// Package version reports how the brushsetmaker binary was built.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/dendrascience/brushsetmaker/version.Version=v1.2.3".
// Unset values fall back to what the Go toolchain embedded in the binary.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const (
	unknown     = "unknown"
	development = "development"

	// compressorModule writes the deflate streams inside every archive.
	compressorModule = "github.com/klauspost/compress"
)

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
	Dirty      bool   `json:"dirty,omitempty"`
	GoVersion  string `json:"go_version"`
	Compressor string `json:"compressor"`
}

var readBuildInfo = debug.ReadBuildInfo

// GetInfo collects the build details. Linker-set values win.
func GetInfo() Info {
	info := Info{
		Version:    Version,
		Commit:     Commit,
		Date:       Date,
		GoVersion:  runtime.Version(),
		Compressor: compressorModule + " " + unknown,
	}

	bi, ok := readBuildInfo()
	if ok {
		vcs := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			vcs[s.Key] = s.Value
		}
		if unset(info.Version, "dev") && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		if unset(info.Commit, unknown) {
			info.Commit = vcs["vcs.revision"]
		}
		if unset(info.Date, unknown) {
			info.Date = vcs["vcs.time"]
		}
		info.Dirty = vcs["vcs.modified"] == "true"
		for _, dep := range bi.Deps {
			if dep.Path == compressorModule {
				info.Compressor = dep.Path + " " + dep.Version
			}
		}
	}

	if unset(info.Version, "dev") {
		info.Version = development
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Date == "" {
		info.Date = unknown
	}
	return info
}

func unset(v, placeholder string) bool {
	return v == "" || v == placeholder
}

// String is the one-line form, e.g. "v1.0.0 (0123456, built 2026-01-02)".
func (i Info) String() string {
	if i.Commit == unknown {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Dirty {
		commit += "-dirty"
	}
	if i.Date == unknown {
		return fmt.Sprintf("%s (%s)", i.Version, commit)
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, commit, i.Date)
}

// GetFullVersion returns GetInfo().String().
func GetFullVersion() string {
	return GetInfo().String()
}

// PrintVersion writes the build details to w, one per line.
func PrintVersion(w io.Writer, appName string) {
	info := GetInfo()
	fmt.Fprintf(w, "%s version %s\n", appName, info)
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
	fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Compressor: %s\n", info.Compressor)
}
