// Package cmd provides the command-line interface implementation for
// brushsetmaker.
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The root command loads settings and
// builds the logger in its pre-run hook and hands both to the subcommands
// through App. Packaging itself lives in package brushset; nothing here
// touches archives directly except to print what brushset reports.
package cmd
