// Package cli is the cobra command tree. With no subcommand it starts the
// TUI; the subcommands are scriptable shortcuts over the same Root.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// App is the state shared by every command for one invocation.
type App struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Key        string
	LogLevel   string
	NoColor    bool
	Ephemeral  bool

	cfg     config.Config
	storage store.Storage
	logOut  io.Closer
	logger  *log.Logger
	root    *app.Root
}

func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *App) {
	a := &App{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A tiny local to-do list (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs("todo"),
		Example: strings.TrimSpace(`
  # Start the interactive list
  todo

  # Scriptable commands
  todo add Buy milk
  todo ls
  todo done 1
  todo rm 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(a.root); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ui.Stdout = cmd.OutOrStdout()
		ui.Stderr = cmd.ErrOrStderr()
		if cmd.Name() == "version" {
			return nil
		}
		return a.open(cmd, cmd == cmd.Root())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.Close()
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.ConfigPath, "config", "", "config file (default: <user config dir>/tada/config.toml)")
	f.StringVar(&a.DataDir, "data-dir", "", "directory holding the todo storage")
	f.StringVar(&a.Backend, "backend", "", "storage backend: file, sqlite or memory")
	f.StringVar(&a.Key, "key", "", "storage key the list is kept under")
	f.StringVar(&a.LogLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&a.NoColor, "no-color", false, "disable colored output")
	f.BoolVar(&a.Ephemeral, "ephemeral", false, "keep the list in memory only")

	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a, true),
		newDoneCmd(a, false),
		newRemoveCmd(a),
		newVersionCmd(),
	)
	return cmd, a
}

// open resolves config, storage and the Root. When interactive, logs go to
// a file so they cannot draw over the TUI.
func (a *App) open(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return usageError{err.Error()}
	}
	a.cfg = cfg
	ui.SetColorMode(false, cfg.NoColor)

	switch {
	case interactive && cfg.Backend == store.BackendMemory:
		a.logger = logging.Discard()
	case interactive:
		l, f, err := logging.OpenFile(cfg.LogFile(), cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		a.logger, a.logOut = l, f
	default:
		a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	}

	s, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.storage = s
	a.logger.Debug("opened storage", "backend", cfg.Backend, "dir", cfg.DataDir)

	a.root = app.New(s, app.WithKey(cfg.Key), app.WithLogger(a.logger))
	return nil
}

func (a *App) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("data-dir") {
		cfg.DataDir = a.DataDir
	}
	if f.Changed("backend") {
		cfg.Backend = a.Backend
	}
	if f.Changed("key") {
		cfg.Key = a.Key
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.LogLevel
	}
	if f.Changed("no-color") {
		cfg.NoColor = a.NoColor
	}
	if a.Ephemeral {
		cfg.Backend = store.BackendMemory
	}
}

// Close releases storage and the log file.
func (a *App) Close() error {
	var err error
	if a.storage != nil {
		err = a.storage.Close()
		a.storage = nil
	}
	if a.logOut != nil {
		_ = a.logOut.Close()
		a.logOut = nil
	}
	return err
}

// warnIfUnsaved reports a failed write; the command still succeeds.
func (a *App) warnIfUnsaved() {
	if err := a.root.LastPersistError(); err != nil {
		ui.Warn("not saved: " + err.Error())
	}
}

// Execute runs the command tree and returns the process exit code
// (0 ok, 1 error, 2 usage).
func Execute(args []string) int {
	cmd, a := newRootCmd()
	defer a.Close()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		ui.Fail(err.Error())
		return ExitCode(err)
	}
	return 0
}
