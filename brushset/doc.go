// Package brushset packages folders of brush assets into .brushset archives
// and manages the brushset.plist metadata that lives alongside them.
//
// A .brushset is a plain ZIP container. Every regular file under the packaged
// folder becomes one entry, named by its slash-separated path relative to that
// folder, so a file at Pencils/textures/grain.png is stored as
// textures/grain.png inside Pencils.brushset.
//
// Key Components:
//
// Packaging:
//   - Packager.Package and Packager.PackageTo build one archive per folder
//   - Archives are written to a temporary file and renamed into place, so a
//     failed or empty run never leaves a partial .brushset behind
//   - Deflate compression through github.com/klauspost/compress/flate with a
//     configurable level, or stored entries
//
// Bulk processing:
//   - Packager.PackageAll packages every immediate sub-directory of a root
//   - Per-unit failures are aggregated in a Report and never abort the batch
//     unless StopOnError is set
//   - An Observer receives (index, total, name) after each unit
//
// Metadata:
//   - LoadMetadata reads brushset.plist or synthesizes a record from the
//     UUID-named brush folders it finds
//   - SaveMetadata writes an XML property list atomically
//
// Inspection:
//   - ListEntries, CountEntries and HasEntry read existing archives
package brushset
