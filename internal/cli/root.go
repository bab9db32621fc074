// Package cli wires the october-cli command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ngmaloney/october-cli/internal/config"
	"github.com/ngmaloney/october-cli/internal/gateway"
	"github.com/ngmaloney/october-cli/internal/logging"
	"github.com/ngmaloney/october-cli/internal/ui"
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// GatewayFactory builds the gateway a command talks to.
type GatewayFactory func(cfg *config.Config, log *slog.Logger) gateway.Gateway

// Option customises the command tree.
type Option func(*app)

// WithOutput redirects command output and error lines.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *app) {
		a.out = out
		a.errOut = errOut
	}
}

// WithGatewayFactory replaces the default HTTPS gateway client.
func WithGatewayFactory(f GatewayFactory) Option {
	return func(a *app) { a.newGateway = f }
}

// WithBuildInfo sets the version reported by the version command.
func WithBuildInfo(info BuildInfo) Option {
	return func(a *app) { a.build = info }
}

// app holds state shared by the commands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        *config.Config
	log        *slog.Logger

	newGateway GatewayFactory
	build      BuildInfo
}

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// NewRootCommand builds the october-cli command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		out:        os.Stdout,
		errOut:     os.Stderr,
		newGateway: defaultGateway,
		build:      BuildInfo{Version: "dev", Commit: "none", Date: "unknown"},
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "october-cli",
		Short: "October CMS Gateway client",
		Long: `Command-line client for the October CMS Gateway V1 API.

Requests are signed with your API key and secret. Configure them in the
config file, with OCTOBER_API_KEY / OCTOBER_API_SECRET, or with flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              noSubcommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $OCTOBER_CONFIG or ~/.config/october-cli/config.yaml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.newListCommand(),
		a.newGetCommand(),
		a.newBrowseCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit
// code. Failures are printed as "Error: <message>".
func Execute(ctx context.Context, args []string, opts ...Option) int {
	a := &app{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(a)
	}

	root := NewRootCommand(opts...)
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(a.errOut, ui.Error("Error: "+exitErr.Message))
		if exitErr.Code == 2 {
			fmt.Fprintf(a.errOut, "Run '%s --help' for usage.\n", root.Name())
		}
		return exitErr.Code
	}
	fmt.Fprintln(a.errOut, ui.Error("Error: "+err.Error()))
	return 1
}

// setup loads and validates configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if !needsConfig(cmd) {
		return nil
	}

	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cfg.LogFormat, a.errOut)
	a.log.Debug("configuration loaded",
		"url", cfg.URL,
		"timeout", cfg.Timeout,
		"credentials", cfg.HasCredentials(),
	)
	return nil
}

// needsConfig is false for the root command itself, for commands, or children of commands, annotated
// with skipConfig, and for cobra's built-in help and completion commands.
func needsConfig(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfig] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func (a *app) client() gateway.Gateway {
	return a.newGateway(a.cfg, a.log)
}

func defaultGateway(cfg *config.Config, log *slog.Logger) gateway.Gateway {
	return gateway.New(gateway.Options{
		BaseURL:     cfg.URL,
		Credentials: cfg.Credentials(),
		Timeout:     cfg.Timeout,
		Logger:      log,
	})
}

// info prints a styled informational line to stdout.
func (a *app) info(format string, args ...any) {
	fmt.Fprintln(a.out, ui.Info(fmt.Sprintf(format, args...)))
}
