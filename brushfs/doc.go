// Package brushfs exposes a .brushset archive as a read-only FUSE filesystem.
//
// The archive's entries are arranged into a directory tree once, when the
// filesystem is opened; file content is decompressed on first read and then
// cached on the node. Nothing is ever written back to the archive.
//
// The main entry point is Open, which returns an FS that can be served with
// bazil.org/fuse/fs.Serve.
package brushfs
