package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
)

// DatabaseInfo resolves the named connection of an environment in the given
// connection context. Either the whole connection resolves or an error is
// returned.
func (a *App) DatabaseInfo(ctx context.Context, envName, connection string, cc descriptor.ConnectionContext) (map[string]string, error) {
	ctx = a.withLogger(ctx)

	env, err := a.registry.Environment(envName)
	if err != nil {
		return nil, err
	}
	if _, err := descriptor.SelectContext(cc, env.SupportedContexts()); err != nil {
		return nil, fmt.Errorf("environment %q: %w", env.Name, err)
	}

	a.logger.Debug("Resolving database info.", "environment", env.Name, "connection", connection, "context", cc)
	info, err := a.resolver.ResolveConnection(ctx, env.Databases, connection, cc)
	if err != nil {
		return nil, fmt.Errorf("environment %q: %w", env.Name, err)
	}
	return info, nil
}

// RunAction runs the command an environment defines for action, with args
// appended as single-quoted shell words, and returns its trimmed output.
func (a *App) RunAction(ctx context.Context, envName string, action environment.Action, args []string) (string, error) {
	ctx = a.withLogger(ctx)

	env, err := a.registry.Environment(envName)
	if err != nil {
		return "", err
	}
	command, err := env.Command(action)
	if err != nil {
		return "", err
	}
	for _, arg := range args {
		command += " " + shellQuote(arg)
	}

	a.logger.Info("Running environment action.", "environment", env.Name, "action", action)
	// The context is irrelevant to a plain command.
	return a.resolver.Resolve(ctx, descriptor.Command{Command: command}, descriptor.Internal)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
