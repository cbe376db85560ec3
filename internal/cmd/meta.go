package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/spf13/cobra"
)

// NewMetaCmd creates the meta command group for a folder's brushset.plist.
func NewMetaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show or edit a folder's brushset.plist",
		Long: `Show or edit the brushset.plist metadata of a brush folder.

When the file is missing or malformed the metadata is built from the folder
itself: its name, and every sub-folder named like a brush ID
(XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX). Only the name can be changed; the
brush list is written back as it was read.`,
	}

	cmd.AddCommand(newMetaShowCmd(app))
	cmd.AddCommand(newMetaSetNameCmd(app))
	cmd.AddCommand(newMetaInitCmd(app))
	return cmd
}

func newMetaShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show FOLDER",
		Short: "Print the metadata of FOLDER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := requireDir(dir); err != nil {
				return err
			}
			m, origin := loadMetadata(app, dir)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(metaView{Metadata: m, Origin: origin})
			}
			fmt.Fprintf(out, "Name:    %s\n", m.Name)
			fmt.Fprintf(out, "Origin:  %s\n", origin)
			fmt.Fprintf(out, "Brushes: %d\n", len(m.Brushes))
			for _, id := range m.Brushes {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newMetaSetNameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-name FOLDER NAME",
		Short: "Rename the brush set in FOLDER's brushset.plist",
		Long: `Set the name stored in FOLDER/brushset.plist, creating the file when it
does not exist. The brush list is kept exactly as it was.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := args[0], args[1]
			if name == "" {
				return errors.New("name must not be empty")
			}
			if err := requireDir(dir); err != nil {
				return err
			}
			m, _ := loadMetadata(app, dir)
			if err := brushset.SaveMetadata(dir, m.WithName(name)); err != nil {
				return err
			}
			app.Logger.Info("metadata saved", "path", brushset.MetadataPath(dir), "brushes", len(m.Brushes))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (name %q, %d brushes)\n", brushset.MetadataPath(dir), name, len(m.Brushes))
			return nil
		},
	}
}

func newMetaInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init FOLDER",
		Short: "Write a brushset.plist built from FOLDER's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := requireDir(dir); err != nil {
				return err
			}
			path := brushset.MetadataPath(dir)
			if _, err := os.Stat(path); err == nil && !force {
				return &brushset.PathError{Op: "init", Path: path, Err: fmt.Errorf("%w, use --force to replace it", fs.ErrExist)}
			}
			m := brushset.SynthesizeMetadata(dir)
			if err := brushset.SaveMetadata(dir, m); err != nil {
				return err
			}
			app.Logger.Debug("metadata initialised", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (name %q, %d brushes)\n", path, m.Name, len(m.Brushes))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing brushset.plist")
	return cmd
}

// loadMetadata is brushset.LoadMetadata with a warning when an existing
// file had to be ignored.
func loadMetadata(app *App, dir string) (brushset.Metadata, brushset.Origin) {
	m, err := brushset.ReadMetadata(dir)
	if err == nil {
		return m, brushset.OriginLoaded
	}
	if !errors.Is(err, brushset.ErrNotFound) {
		app.Logger.Warn("ignoring brushset.plist, using folder contents", "err", err)
	}
	return brushset.SynthesizeMetadata(dir), brushset.OriginSynthesized
}

// metaView is the JSON form of meta show.
type metaView struct {
	brushset.Metadata
	Origin brushset.Origin `json:"origin"`
}

// requireDir fails with brushset's path errors unless dir is a directory.
func requireDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &brushset.PathError{Op: "open", Path: dir, Err: brushset.ErrNotFound}
	case err != nil:
		return err
	case !info.IsDir():
		return &brushset.PathError{Op: "open", Path: dir, Err: brushset.ErrExpectedDirectory}
	}
	return nil
}
