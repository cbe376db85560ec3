package cmd

import (
	"encoding/json"

	"github.com/dendrascience/brushsetmaker/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version subcommand. It does not read the
// settings file, so it works even when that file is broken.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}
			version.PrintVersion(cmd.OutOrStdout(), "brushsetmaker")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}
