package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bryanchriswhite/lswt/internal/config"
	"github.com/bryanchriswhite/lswt/internal/logger"
	"github.com/bryanchriswhite/lswt/internal/render"
	"github.com/bryanchriswhite/lswt/internal/toplevel"
	"github.com/bryanchriswhite/lswt/internal/wayland"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// UsageError is a command line mistake. Usage is printed along with it.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

type options struct {
	cfgFile string
	format  formatSelection
	stdout  io.Writer
}

// newRootCmd builds the command. The listing goes to stdout; help, version
// and diagnostics go to the command's output streams.
func newRootCmd(stdout io.Writer) *cobra.Command {
	o := &options{stdout: stdout}
	cmd := &cobra.Command{
		Use:   "lswt",
		Short: "List Wayland toplevels",
		Long: `lswt lists the toplevels (windows) of a Wayland compositor.

It uses zwlr_foreign_toplevel_manager_v1 (version 3 or higher) when the
compositor offers it, and ext_foreign_toplevel_list_v1 otherwise. The
first provides the activated, fullscreen, minimized and maximized states,
the second a stable identifier.

Custom format codes:
  t  title          A  activated
  a  app-id         f  fullscreen
  i  identifier     m  minimized
                    M  maximized`,
		Example: `  # List toplevels
  lswt

  # List toplevels as JSON
  lswt --json

  # Print title, app-id and maximized state separated by '|'
  lswt --custom '|taM'`,
		Version:       Version,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.SetVersionTemplate("lswt version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := cmd.Flags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lswt/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	addFormatFlags(flags, &o.format)

	return cmd
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("unexpected argument %q", args[0])}
	}
	return nil
}

func (o *options) run(cmd *cobra.Command) error {
	v := viper.New()
	if err := config.Bind(v, cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	configMgr, err := config.NewManager(o.cfgFile, v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, logger.IsTerminal())
	log := logger.WithComponent("lswt")

	env, err := config.LoadEnvironment()
	if err != nil {
		return err
	}

	conn, err := wayland.Connect(env.Display, env.RuntimeDir)
	if err != nil {
		return fmt.Errorf("can not connect to wayland display: %w", err)
	}
	session := toplevel.NewSession(conn)
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close connection")
		}
	}()

	if err := session.Collect(); err != nil {
		return err
	}

	return render.Render(o.stdout, session.Toplevels(), session.Capabilities(), render.Options{
		Format:     o.format.format,
		Custom:     o.format.custom,
		AppIDWidth: cfg.AppIDWidth,
	})
}

// run executes the root command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

// Execute runs the root command
func Execute() {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}
