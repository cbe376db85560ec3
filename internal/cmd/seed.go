package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed subcommand. It generates sample brush folders
// to try pack and bulk on.
func NewSeedCmd(app *App) *cobra.Command {
	var (
		outputPath string
		sets       int
		brushes    int
		empty      int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample brush folders",
		Long: `Generate sample brush folders under --output for trying out pack and bulk.

Each set gets a brushset.plist and --brushes brush folders named with fresh
UUIDs, each holding a Shape.png, a Grain.png and a Brush.archive of filler
data. --empty adds folders without any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sets < 0 || brushes < 0 || empty < 0 {
				return fmt.Errorf("counts must not be negative")
			}
			return runSeed(cmd, app, outputPath, sets, brushes, empty)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&sets, "sets", "n", 3, "Number of brush sets")
	cmd.Flags().IntVarP(&brushes, "brushes", "b", 4, "Brushes per set")
	cmd.Flags().IntVar(&empty, "empty", 0, "Number of additional empty folders")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// seedFiles are the files written into every generated brush folder, with
// their sizes.
var seedFiles = map[string]int{
	"Shape.png":     512,
	"Grain.png":     1024,
	"Brush.archive": 256,
}

func runSeed(cmd *cobra.Command, app *App, outputPath string, sets, brushes, empty int) error {
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i := range sets {
		dir := filepath.Join(outputPath, fmt.Sprintf("Sample Set %d", i+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for range brushes {
			brushDir := filepath.Join(dir, uuid.New().String())
			if err := os.Mkdir(brushDir, 0o755); err != nil {
				return err
			}
			for name, size := range seedFiles {
				if err := os.WriteFile(filepath.Join(brushDir, name), []byte(uuid.New().String()+randomFill(size)), 0o644); err != nil {
					return err
				}
			}
		}
		m := brushset.SynthesizeMetadata(dir)
		if err := brushset.SaveMetadata(dir, m); err != nil {
			return err
		}
		app.Logger.Debug("seeded set", "dir", dir, "brushes", len(m.Brushes))
	}

	for i := range empty {
		if err := os.MkdirAll(filepath.Join(outputPath, fmt.Sprintf("Empty %d", i+1)), 0o755); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d sets with %d brushes each and %d empty folders in %s\n", sets, brushes, empty, outputPath)
	return nil
}

// randomFill returns n bytes of concatenated random UUIDs.
func randomFill(n int) string {
	b := make([]byte, 0, n)
	for len(b) < n {
		b = append(b, uuid.New().String()...)
	}
	return string(b[:n])
}
