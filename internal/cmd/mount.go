package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/brushsetmaker/brushfs"
	"github.com/dendrascience/brushsetmaker/version"
	"github.com/spf13/cobra"
)

// NewMountCmd creates the mount subcommand, which serves a .brushset
// read-only through FUSE.
func NewMountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mount ARCHIVE MOUNTPOINT",
		Short: "Mount a .brushset read-only",
		Long: `Mount a .brushset archive read-only at the specified mountpoint.

ARCHIVE is the .brushset file to browse.
MOUNTPOINT is the directory where its entries will appear. It must not be the
directory holding ARCHIVE or one of its parents.

The archive stays mounted until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(cmd.Context(), app, args[0], args[1])
		},
	}
}

func runMount(ctx context.Context, app *App, archivePath, mountpoint string) error {
	if hides(mountpoint, archivePath) {
		return fmt.Errorf("mountpoint %s would hide the archive %s", mountpoint, archivePath)
	}

	filesystem, err := brushfs.Open(archivePath)
	if err != nil {
		return err
	}
	defer filesystem.Close()

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("brushset"),
		fuse.Subtype("brushsetmaker"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("mounting %s: %w", mountpoint, err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		served <- fs.Serve(c, filesystem)
	}()

	app.Logger.Info("mounted", "version", version.GetFullVersion(), "archive", archivePath, "mountpoint", mountpoint)

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("received interrupt signal, unmounting")
	if err := fuse.Unmount(mountpoint); err != nil {
		return fmt.Errorf("unmounting %s: %w", mountpoint, err)
	}
	if err := <-served; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.Logger.Info("shutdown complete")
	return nil
}

// hides reports whether mounting at mountpoint would cover path, that is,
// whether mountpoint is path's directory or one of its ancestors.
func hides(mountpoint, path string) bool {
	mp, err := filepath.Abs(mountpoint)
	if err != nil {
		return false
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(mp, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
