// Package main provides the brushsetmaker command-line interface.
//
// brushsetmaker packages folders of brush assets into .brushset archives, the
// zip based format digital painting applications import brush sets from.
//
// The main binary supports multiple subcommands:
//   - pack: Package one folder into a .brushset
//   - bulk: Package every sub-folder of a root folder, with a summary report
//   - meta: Show or edit a folder's brushset.plist
//   - inspect: Describe an existing .brushset
//   - mount: Browse a .brushset read-only through FUSE
//   - count, seed, config, version: utilities
package main
