package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/devenv/internal/app"
	"github.com/specialistvlad/devenv/internal/hcl"
	"github.com/specialistvlad/devenv/internal/settings"
)

// prepare resolves the effective settings. Later sources win: defaults, the
// settings file, DEVENV_* variables, then flags given on the command line.
func (st *state) prepare(cmd *cobra.Command) error {
	lookup := st.deps.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	flags := cmd.Flags()

	s := settings.Default()
	path, required := settings.DefaultFile, false
	if v, ok := lookup(settings.EnvPrefix + "CONFIG"); ok && v != "" {
		path, required = v, true
	}
	if flags.Changed("config") {
		path, required = st.flags.config, true
	}
	if err := s.LoadFile(path, required); err != nil {
		return usageError(err)
	}
	if err := s.ApplyEnv(lookup); err != nil {
		return usageError(err)
	}

	if flags.Changed("environments") {
		s.EnvironmentsPath = st.flags.environments
	}
	if flags.Changed("log-level") {
		s.LogLevel = st.flags.logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = st.flags.logFormat
	}
	if flags.Changed("output") {
		s.Output = st.flags.output
	}
	if flags.Changed("command-timeout") {
		s.CommandTimeout = st.flags.commandTimeout
	}
	if flags.Changed("concurrency") {
		s.Concurrency = st.flags.concurrency
	}

	if err := s.Validate(); err != nil {
		return usageError(err)
	}
	cfg, err := app.NewConfig(app.Config{
		EnvironmentsPaths: s.EnvironmentsPath,
		LogFormat:         s.LogFormat,
		LogLevel:          s.LogLevel,
		CommandTimeout:    s.CommandTimeout,
		Concurrency:       s.Concurrency,
	})
	if err != nil {
		return usageError(err)
	}

	st.settings = s
	st.appConfig = cfg
	return nil
}

// newApp builds the App. Broken environment files are configuration errors.
func (st *state) newApp() (*app.App, error) {
	loader := st.deps.Loader
	if loader == nil {
		loader = hcl.NewLoader()
	}
	a, err := app.NewApp(st.streams.Err, st.appConfig, loader, st.deps.Runner, st.deps.Modules...)
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}
