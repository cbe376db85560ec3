package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/dendrascience/brushsetmaker/internal/settings"
	"github.com/dendrascience/brushsetmaker/version"
	"github.com/spf13/cobra"
)

const (
	groupPackaging = "packaging"
	groupArchives  = "archives"
	groupUtilities = "utilities"
)

// ConfigEnv names the environment variable that overrides the settings path.
const ConfigEnv = settings.EnvPrefix + "_CONFIG"

// App is the state shared by all subcommands. It is filled in by the root
// command's pre-run hook before any subcommand runs.
type App struct {
	ConfigPath string
	Verbose    bool
	Settings   settings.Settings
	Logger     *log.Logger

	logCloser io.Closer
}

// Execute runs the brushsetmaker CLI with os.Args. The log file, if one was
// opened, is closed when the command returns, including on failure.
func Execute(ctx context.Context) error {
	app := &App{}
	defer func() { _ = app.close() }()
	return fang.Execute(ctx, newRootCmd(app))
}

// NewRootCmd creates and returns the root cobra command for the brushsetmaker
// CLI with every subcommand and command group attached.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brushsetmaker",
		Short: "brushsetmaker - package brush folders into .brushset archives",
		Long: `brushsetmaker packages folders of brush assets into .brushset archives
for digital painting applications.

A .brushset is a zip archive of every regular file in the folder, stored
under its path relative to the folder. An optional brushset.plist in the
folder names the set and lists its brushes.

Use subcommands to perform different operations:
  - pack: Package one folder
  - bulk: Package every sub-folder of a root folder
  - meta: Show or edit a folder's brushset.plist
  - inspect: List the contents of an existing .brushset
  - mount: Browse a .brushset read-only through FUSE`,
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Settings file (default ~/.brushsetmaker/settings.json, or $"+ConfigEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupPackaging,
		Title: "Packaging",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchives,
		Title: "Archive Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	packCmd := NewPackCmd(app)
	bulkCmd := NewBulkCmd(app)
	metaCmd := NewMetaCmd(app)
	inspectCmd := NewInspectCmd(app)
	mountCmd := NewMountCmd(app)
	countCmd := NewCountCmd(app)
	seedCmd := NewSeedCmd(app)
	configCmd := NewConfigCmd(app)
	versionCmd := NewVersionCmd()

	packCmd.GroupID = groupPackaging
	bulkCmd.GroupID = groupPackaging
	metaCmd.GroupID = groupPackaging
	inspectCmd.GroupID = groupArchives
	mountCmd.GroupID = groupArchives
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	configCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// resolveConfigPath applies the --config flag, then $BRUSHSETMAKER_CONFIG,
// then the default location.
func (a *App) resolveConfigPath() error {
	if a.ConfigPath == "" {
		a.ConfigPath = os.Getenv(ConfigEnv)
	}
	if a.ConfigPath != "" {
		return nil
	}
	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	a.ConfigPath = path
	return nil
}

func (a *App) setup(cmd *cobra.Command) error {
	if err := a.resolveConfigPath(); err != nil {
		return err
	}
	s, err := settings.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Settings = s
	a.startLogging(cmd)
	a.Logger.Debug("settings loaded", "path", a.ConfigPath)
	return nil
}

func (a *App) startLogging(cmd *cobra.Command) {
	a.Logger, a.logCloser = newLogger(cmd.ErrOrStderr(), a.Settings, a.Verbose)
}

func (a *App) close() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// packager builds a Packager from s, which is usually a.Settings with some
// command-line overrides applied.
func (a *App) packager(s settings.Settings) (*brushset.Packager, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opts := s.PackagerOptions()
	opts.Logger = a.Logger
	return brushset.NewPackager(opts), nil
}
