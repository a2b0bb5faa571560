// Package environment describes a local development environment: the
// database connections it exposes and the shell commands that drive its
// lifecycle.
package environment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/devenv/internal/descriptor"
)

// Action is a lifecycle operation an environment may provide a command for.
type Action string

const (
	ActionSSH     Action = "ssh"
	ActionInfo    Action = "info"
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionExecute Action = "execute"
	ActionLaunch  Action = "launch"
)

// KnownActions lists every action in display order.
var KnownActions = []Action{ActionSSH, ActionInfo, ActionStart, ActionStop, ActionRestart, ActionExecute, ActionLaunch}

// ErrUnknownAction is returned when an environment has no command for an action.
var ErrUnknownAction = errors.New("unknown action")

// Environment is a named development environment definition.
type Environment struct {
	Name  string
	Label string
	// Contexts are the connection contexts this environment supports. Nil
	// means descriptor.DefaultContexts.
	Contexts  []descriptor.ConnectionContext
	Databases descriptor.Configuration
	Commands  map[Action]string
}

// SupportedContexts returns the declared contexts or the defaults.
func (e *Environment) SupportedContexts() []descriptor.ConnectionContext {
	if len(e.Contexts) == 0 {
		return descriptor.DefaultContexts
	}
	return e.Contexts
}

// Command returns the shell command for action.
func (e *Environment) Command(action Action) (string, error) {
	cmd, ok := e.Commands[action]
	if !ok {
		return "", fmt.Errorf("%w %q for environment %q", ErrUnknownAction, action, e.Name)
	}
	return cmd, nil
}

// Actions returns the actions this environment provides, known actions
// first in display order.
func (e *Environment) Actions() []Action {
	var out []Action
	seen := make(map[Action]bool, len(e.Commands))
	for _, a := range KnownActions {
		if _, ok := e.Commands[a]; ok {
			out = append(out, a)
			seen[a] = true
		}
	}
	var extra []string
	for a := range e.Commands {
		if !seen[a] {
			extra = append(extra, string(a))
		}
	}
	sort.Strings(extra)
	for _, a := range extra {
		out = append(out, Action(a))
	}
	return out
}

// DisplayName returns the label, falling back to the name.
func (e *Environment) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Name
}

// Validate reports every problem with the definition at once.
func (e *Environment) Validate() error {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "environment name is empty")
	}
	contexts := e.SupportedContexts()
	for _, cc := range contexts {
		if strings.TrimSpace(string(cc)) == "" {
			errs = append(errs, "empty connection context")
		}
	}
	for _, conn := range e.Databases.Names() {
		fields := e.Databases[conn]
		if len(fields) == 0 {
			errs = append(errs, fmt.Sprintf("connection %q has no fields", conn))
		}
		for _, field := range fields.Names() {
			if err := descriptor.Validate(fields[field], contexts); err != nil {
				errs = append(errs, fmt.Sprintf("connection %q, field %q: %v", conn, field, err))
			}
		}
	}
	for _, a := range e.Actions() {
		if strings.TrimSpace(e.Commands[a]) == "" {
			errs = append(errs, fmt.Sprintf("action %q has an empty command", a))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("environment %q is invalid:\n- %s", e.Name, strings.Join(errs, "\n- "))
	}
	return nil
}
