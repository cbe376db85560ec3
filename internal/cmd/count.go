package cmd

import (
	"fmt"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/spf13/cobra"
)

// NewCountCmd creates the count subcommand. It counts the files pack would
// put into an archive.
func NewCountCmd(app *App) *cobra.Command {
	var (
		path     string
		noHidden bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count the files a folder would be packaged with",
		Long: `Count the regular files under PATH that pack would add to an archive.

Symbolic links to files count like the files they point at. Symlinked
folders and other special files are not counted. Hidden files are
counted unless include_hidden_files is off or --no-hidden is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			includeHidden := app.Settings.IncludeHiddenFiles && !noHidden
			n, err := brushset.CountFiles(path, includeHidden)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total files: %d\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().BoolVar(&noHidden, "no-hidden", false, "Leave out files and folders starting with a dot")

	return cmd
}
