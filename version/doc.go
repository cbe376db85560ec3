// Package version provides version information and build metadata for
// brushsetmaker.
//
// Version Information Sources:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// Release builds set them with:
//
//	-ldflags "-X github.com/dendrascience/brushsetmaker/version.Version=v1.0.0 -X github.com/dendrascience/brushsetmaker/version.Commit=abc123"
package version
