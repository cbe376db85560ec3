package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dendrascience/brushsetmaker/internal/settings"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group for the settings file.
func NewConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the settings file.

Settings are read from ~/.brushsetmaker/settings.json unless --config or
$` + ConfigEnv + ` names another file. Any key can also be set from the
environment as ` + settings.EnvPrefix + `_<KEY>, for example
` + settings.EnvPrefix + `_COMPRESSION_LEVEL=maximum.

Keys:
  ` + strings.Join(settings.Keys(), "\n  "),
		// only resolve the path; a broken settings file must not keep
		// config init from repairing it
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.resolveConfigPath(); err != nil {
				return err
			}
			app.Settings = settings.Defaults()
			app.startLogging(cmd)
			return nil
		},
	}

	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.ConfigPath)
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(app.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s: %w, use --force to replace it", app.ConfigPath, fs.ErrExist)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := settings.Save(app.ConfigPath, settings.Defaults()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", app.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing settings file")
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := settings.Set(app.ConfigPath, args[0], args[1]); err != nil {
				return err
			}
			app.Logger.Debug("setting changed", "key", args[0], "value", args[1], "path", app.ConfigPath)
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}
