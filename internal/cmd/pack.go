package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/dendrascience/brushsetmaker/internal/settings"
	"github.com/spf13/cobra"
)

// overrides are the packaging flags shared by pack and bulk. A flag only
// replaces the settings value when it was given.
type overrides struct {
	level     string
	overwrite string
	embed     bool
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.level, "level", "", "Compression level: store, fast, normal or maximum")
	cmd.Flags().StringVar(&o.overwrite, "overwrite", "", "When the archive exists: overwrite, rename or skip")
	cmd.Flags().BoolVar(&o.embed, "embed-metadata", false, "Add a generated brushset.plist when the folder has none")
}

func (o *overrides) apply(cmd *cobra.Command, s settings.Settings) settings.Settings {
	if cmd.Flags().Changed("level") {
		s.CompressionLevel = o.level
	}
	if cmd.Flags().Changed("overwrite") {
		s.OverwriteBehavior = o.overwrite
	}
	if cmd.Flags().Changed("embed-metadata") {
		s.EmbedMetadata = o.embed
	}
	return s
}

// NewPackCmd creates the pack subcommand, which packages a single folder.
func NewPackCmd(app *App) *cobra.Command {
	var (
		outputDir   string
		archivePath string
		flags       overrides
	)

	cmd := &cobra.Command{
		Use:   "pack FOLDER",
		Short: "Package one folder into a .brushset archive",
		Long: `Package every regular file under FOLDER into a .brushset archive.

The archive is named from the default_name_template setting and written next
to FOLDER, into default_save_location when set, or into --output. Use
--archive to choose the exact file instead.

A folder with no files is reported and leaves nothing behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.packager(flags.apply(cmd, app.Settings))
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = app.Settings.DefaultSaveLocation
			}
			return runPack(cmd, p, args[0], outputDir, archivePath)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the archive into")
	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Exact archive path (the .brushset extension is enforced)")
	cmd.MarkFlagsMutuallyExclusive("output", "archive")
	flags.register(cmd)

	return cmd
}

func runPack(cmd *cobra.Command, p *brushset.Packager, folder, outputDir, archivePath string) error {
	out := cmd.OutOrStdout()

	var (
		res brushset.Result
		err error
	)
	if archivePath != "" {
		res, err = p.PackageTo(cmd.Context(), folder, archivePath)
	} else {
		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		res, err = p.Package(cmd.Context(), folder, outputDir)
	}

	switch {
	case errors.Is(err, brushset.ErrEmpty):
		fmt.Fprintf(out, "Nothing to package: %s has no files\n", folder)
		return nil
	case errors.Is(err, brushset.ErrExists):
		fmt.Fprintf(out, "Skipped: %v\n", err)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "Created %s\n", res.ArchivePath)
	fmt.Fprintf(out, "  files:  %d (%d bytes)\n", res.Entries, res.Bytes)
	fmt.Fprintf(out, "  sha256: %s\n", res.SHA256)
	return nil
}
