package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/query"
	"github.com/specialistvlad/devenv/internal/registry"
	"github.com/specialistvlad/devenv/internal/resolver"
)

func newListCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered environments",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.newApp()
			if err != nil {
				return err
			}
			return writeEnvironments(cmd.OutOrStdout(), st.settings.Output, a.Environments())
		},
	}
}

func newDBInfoCommand(st *state) *cobra.Command {
	var connection, connContext string

	cmd := &cobra.Command{
		Use:   "db-info [ENVIRONMENT]",
		Short: "Print the database connection of an environment",
		Long: `Resolve every field of a database connection and print the result.
Nothing is printed unless the whole connection resolves.`,
		Example: `  devenv db-info ddev
  devenv db-info lando --context external --output json`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := st.settings
			envName := s.Environment
			if len(args) == 1 {
				envName = args[0]
			}
			if cmd.Flags().Changed("connection") {
				s.Connection = connection
			}
			if cmd.Flags().Changed("context") {
				s.Context = connContext
			}
			if envName == "" {
				return usageError(errors.New("no environment given: pass ENVIRONMENT or set 'environment' in the settings file"))
			}
			if err := s.Validate(); err != nil {
				return usageError(err)
			}

			a, err := st.newApp()
			if err != nil {
				return err
			}
			info, err := a.DatabaseInfo(cmd.Context(), envName, s.Connection, descriptor.ConnectionContext(s.Context))
			if err != nil {
				return classify(err)
			}
			return writeConnection(cmd.OutOrStdout(), s.Output, info)
		},
	}
	cmd.Flags().StringVar(&connection, "connection", "primary", "Name of the database connection.")
	cmd.Flags().StringVarP(&connContext, "context", "c", string(descriptor.Internal), "Connection context: 'internal' (container network) or 'external' (host).")
	return cmd
}

func newRunCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run ENVIRONMENT ACTION [ARGS...]",
		Short: "Run a lifecycle command of an environment",
		Long: fmt.Sprintf(`Run the command an environment defines for ACTION and print its output.
Common actions are %s. Extra ARGS are passed to the command as quoted words.`, joinActions(environment.KnownActions)),
		Example: `  devenv run ddev start
  devenv run lando execute -- drush status`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.newApp()
			if err != nil {
				return err
			}
			out, err := a.RunAction(cmd.Context(), args[0], environment.Action(args[1]), args[2:])
			if err != nil {
				return classify(err)
			}
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newQueryCommand(st *state) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Evaluate a query against a JSON document",
		Long: `Evaluate QUERY against a JSON document read from --file or stdin.
Scalars are printed as they would appear in a resolved field; anything
else is printed as JSON.`,
		Example: `  ddev describe --json-output | devenv query raw.dbinfo.host
  devenv query '[].external_connection.port | [0]' --file info.json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Compile(args[0])
			if err != nil {
				return usageError(err)
			}

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return usageError(fmt.Errorf("failed to open document: %w", err))
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			doc, err := query.ParseDocument(raw)
			if err != nil {
				return &resolver.MalformedOutputError{Raw: string(raw), Err: err}
			}
			v, ok := q.Evaluate(doc)
			if !ok {
				return &resolver.QueryResolutionError{Query: q.String(), Document: string(raw)}
			}

			out := cmd.OutOrStdout()
			if s, ok := query.Scalar(v); ok {
				fmt.Fprintln(out, s)
				return nil
			}
			b, err := ctyjson.Marshal(v, v.Type())
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the document from this file instead of stdin ('-' means stdin).")
	return cmd
}

// classify turns errors caused by a wrong name or context on the command
// line into usage errors.
func classify(err error) error {
	var unsupported *descriptor.UnsupportedContextError
	switch {
	case errors.Is(err, registry.ErrUnknownEnvironment),
		errors.Is(err, environment.ErrUnknownAction),
		errors.Is(err, resolver.ErrUnknownConnection),
		errors.As(err, &unsupported):
		return usageError(err)
	}
	return err
}

func joinActions(actions []environment.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = "'" + string(a) + "'"
	}
	return strings.Join(names, ", ")
}
