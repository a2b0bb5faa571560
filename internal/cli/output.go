package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/settings"
)

// environmentSummary is the list entry written for json and yaml output.
type environmentSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Contexts    []string `json:"contexts" yaml:"contexts"`
	Connections []string `json:"connections" yaml:"connections"`
	Actions     []string `json:"actions" yaml:"actions"`
}

func summarize(env *environment.Environment) environmentSummary {
	s := environmentSummary{
		Name:        env.Name,
		Label:       env.DisplayName(),
		Connections: env.Databases.Names(),
		Contexts:    []string{},
		Actions:     []string{},
	}
	for _, cc := range env.SupportedContexts() {
		s.Contexts = append(s.Contexts, string(cc))
	}
	for _, a := range env.Actions() {
		s.Actions = append(s.Actions, string(a))
	}
	if s.Connections == nil {
		s.Connections = []string{}
	}
	return s
}

func writeEnvironments(w io.Writer, format string, envs []*environment.Environment) error {
	summaries := make([]environmentSummary, len(envs))
	for i, env := range envs {
		summaries[i] = summarize(env)
	}

	switch format {
	case settings.OutputJSON:
		return writeJSON(w, summaries)
	case settings.OutputYAML:
		return writeYAML(w, summaries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tCONTEXTS\tACTIONS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Label, strings.Join(s.Contexts, ","), strings.Join(s.Actions, ","))
	}
	return tw.Flush()
}

// writeConnection prints a resolved connection. Text output is one sorted
// `key = value` line per field.
func writeConnection(w io.Writer, format string, info map[string]string) error {
	switch format {
	case settings.OutputJSON:
		return writeJSON(w, info)
	case settings.OutputYAML:
		return writeYAML(w, info)
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, info[k])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
