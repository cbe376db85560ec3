package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/spf13/cobra"
)

// NewBulkCmd creates the bulk subcommand, which packages every sub-folder of
// a root folder.
func NewBulkCmd(app *App) *cobra.Command {
	var (
		reportPath  string
		stopOnError bool
		quiet       bool
		flags       overrides
	)

	cmd := &cobra.Command{
		Use:   "bulk ROOT",
		Short: "Package every sub-folder of ROOT",
		Long: `Package each immediate sub-folder of ROOT into ROOT/<name>.brushset.

Folders starting with "." or "_" are skipped unless skip_hidden_folders is
off. Empty folders are skipped, not failed. A failing folder does not stop the
run unless error_handling is "stop" or --stop-on-error is given.

A progress line is printed per folder, followed by a summary table. With
generate_report or --report a JSON report is written as well.

The command fails when any folder failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := flags.apply(cmd, app.Settings)
			if stopOnError {
				s.ErrorHandling = "stop"
			}
			p, err := app.packager(s)
			if err != nil {
				return err
			}
			if reportPath == "" && s.GenerateReport {
				reportPath = filepath.Join(args[0], brushset.ReportFile)
			}
			return runBulk(cmd, p, args[0], reportPath, quiet)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON report to this path")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "Stop at the first failing folder")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")
	flags.register(cmd)

	return cmd
}

func runBulk(cmd *cobra.Command, p *brushset.Packager, root, reportPath string, quiet bool) error {
	out := cmd.OutOrStdout()

	var obs brushset.Observer
	if !quiet {
		obs = newProgress(out)
	}

	rep, err := p.PackageAll(cmd.Context(), root, obs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if rep.Total == 0 {
		fmt.Fprintf(out, "No folders to package in %s\n", root)
		return nil
	}

	fmt.Fprintln(out)
	rep.Render(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, rep.Summary())

	if reportPath != "" {
		if werr := rep.WriteJSON(reportPath); werr != nil {
			return fmt.Errorf("writing report: %w", werr)
		}
		fmt.Fprintf(out, "Report written to %s\n", reportPath)
	}

	if err != nil {
		return fmt.Errorf("interrupted after %d of %d folders: %w", rep.Processed(), rep.Total, err)
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d folders failed", rep.Failed, rep.Total)
	}
	return nil
}
