package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/devenv/internal/app"
	"github.com/specialistvlad/devenv/internal/config"
	"github.com/specialistvlad/devenv/internal/registry"
	"github.com/specialistvlad/devenv/internal/settings"
	"github.com/specialistvlad/devenv/internal/shell"
)

// Exit codes.
const (
	ExitRuntime = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// IO holds the streams commands read from and write to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Deps are the collaborators handed to the App. Zero values select the
// defaults: the shell runner, the built-in modules and os.LookupEnv.
type Deps struct {
	Loader    config.Loader
	Runner    shell.Runner
	Modules   []registry.Module
	LookupEnv func(string) (string, bool)
}

// Run executes the command line in args. Every failure is returned as an
// *ExitError carrying the process exit code.
func Run(ctx context.Context, args []string, streams IO, deps Deps) error {
	root := NewRootCommand(streams, deps)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return &ExitError{Code: ExitRuntime, Message: err.Error()}
}

// globalFlags are bound to the root command's persistent flags.
type globalFlags struct {
	config         string
	environments   []string
	logLevel       string
	logFormat      string
	output         string
	commandTimeout time.Duration
	concurrency    int
}

// state is shared by all commands of one invocation.
type state struct {
	streams IO
	deps    Deps
	flags   globalFlags

	settings  *settings.Settings
	appConfig *app.Config
}

// NewRootCommand builds the devenv command tree.
func NewRootCommand(streams IO, deps Deps) *cobra.Command {
	st := &state{streams: streams, deps: deps}
	defaults := settings.Default()

	root := &cobra.Command{
		Use:   "devenv",
		Short: "Inspect and drive local development environments",
		Long: `devenv knows how to reach the databases of local development environments
such as DDev and Lando. Connection details that depend on the running stack
are derived from the environment's own tooling, for example
'ddev describe --json-output', and can be viewed from inside the container
network (--context internal) or from the host (--context external).

Additional environments can be defined in HCL files passed with
--environments or listed in the settings file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.prepare(cmd)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&st.flags.config, "config", settings.DefaultFile, "Path to the settings file.")
	pf.StringSliceVar(&st.flags.environments, "environments", nil, "HCL files or directories with environment definitions.")
	pf.StringVar(&st.flags.logLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&st.flags.logFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	pf.StringVarP(&st.flags.output, "output", "o", defaults.Output, "Output format. Options: 'text', 'json' or 'yaml'.")
	pf.DurationVar(&st.flags.commandTimeout, "command-timeout", defaults.CommandTimeout, "Maximum run time of each environment command. 0 disables the limit.")
	pf.IntVar(&st.flags.concurrency, "concurrency", defaults.Concurrency, "Number of fields resolved at once.")

	root.AddCommand(
		newListCommand(st),
		newDBInfoCommand(st),
		newRunCommand(st),
		newQueryCommand(st),
	)
	return root
}

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
