// Package settings reads user preferences from a YAML file and DEVENV_*
// environment variables. Command-line flags are applied on top by package cli.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = ".devenv.yaml"

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "DEVENV_"

// Output formats accepted by the db-info command.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Settings holds user preferences.
type Settings struct {
	EnvironmentsPath []string      `yaml:"environments_path"`
	Environment      string        `yaml:"environment"`
	Connection       string        `yaml:"connection"`
	Context          string        `yaml:"context"`
	CommandTimeout   time.Duration `yaml:"command_timeout"`
	Concurrency      int           `yaml:"concurrency"`
	Output           string        `yaml:"output"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
}

// Default returns the built-in defaults. CommandTimeout is zero, meaning
// commands may run for as long as they need.
func Default() *Settings {
	return &Settings{
		Connection:  "primary",
		Context:     "internal",
		Concurrency: 1,
		Output:      OutputText,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// LoadFile overlays values from a YAML file. A missing file is only an error
// when required is set.
func (s *Settings) LoadFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays DEVENV_* variables found through lookup, which is
// usually os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get("ENVIRONMENTS_PATH"); ok {
		s.EnvironmentsPath = splitComma(v)
	}
	if v, ok := get("ENVIRONMENT"); ok {
		s.Environment = v
	}
	if v, ok := get("CONNECTION"); ok {
		s.Connection = v
	}
	if v, ok := get("CONTEXT"); ok {
		s.Context = v
	}
	if v, ok := get("COMMAND_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sCOMMAND_TIMEOUT: %w", EnvPrefix, err)
		}
		s.CommandTimeout = d
	}
	if v, ok := get("CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCONCURRENCY: %w", EnvPrefix, err)
		}
		s.Concurrency = n
	}
	if v, ok := get("OUTPUT"); ok {
		s.Output = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		s.LogLevel = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		s.LogFormat = v
	}
	return nil
}

// Validate checks the values that are not validated by app.NewConfig.
func (s *Settings) Validate() error {
	switch s.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output %q: must be 'text', 'json' or 'yaml'", s.Output)
	}
	if strings.TrimSpace(s.Connection) == "" {
		return errors.New("connection must not be empty")
	}
	if strings.TrimSpace(s.Context) == "" {
		return errors.New("context must not be empty")
	}
	return nil
}

func splitComma(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
