// Package resolver turns value descriptors into concrete strings, running
// commands through a shell.Runner where a descriptor asks for it.
//
// Resolution never caches: every call runs the commands it needs again, once
// per Command node. Nothing is retried and no context falls back to another.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/devenv/internal/ctxlog"
	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/query"
	"github.com/specialistvlad/devenv/internal/shell"
)

// Resolver resolves descriptors. It holds no per-call state and is safe for
// concurrent use.
type Resolver struct {
	runner      shell.Runner
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConcurrency sets how many fields of a connection may resolve at once.
// Values below 2 keep resolution sequential.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.concurrency = n
	}
}

// New returns a Resolver that runs commands with runner.
func New(runner shell.Runner, opts ...Option) *Resolver {
	r := &Resolver{runner: runner, concurrency: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the text value of v in connection context cc.
func (r *Resolver) Resolve(ctx context.Context, v descriptor.Value, cc descriptor.ConnectionContext) (string, error) {
	switch d := v.(type) {
	case descriptor.Literal:
		return d.Value, nil
	case descriptor.Command:
		return r.runCommand(ctx, d.Command)
	case descriptor.Expression:
		return r.resolveExpression(ctx, d, cc)
	default:
		return "", fmt.Errorf("unsupported descriptor %T", v)
	}
}

func (r *Resolver) runCommand(ctx context.Context, command string) (string, error) {
	ctxlog.FromContext(ctx).Debug("Running command.", "command", command)

	res, err := r.runner.Run(ctx, command)
	if err != nil {
		return "", &CommandExecutionError{Command: command, ExitCode: -1, Err: err}
	}
	if res.ExitCode != 0 {
		return "", &CommandExecutionError{Command: command, Stderr: res.Stderr, ExitCode: res.ExitCode}
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (r *Resolver) resolveExpression(ctx context.Context, d descriptor.Expression, cc descriptor.ConnectionContext) (string, error) {
	if d.Query == nil {
		return "", fmt.Errorf("expression has no query")
	}
	// The branch is chosen before anything runs.
	expr, err := d.Query.For(cc)
	if err != nil {
		return "", err
	}
	q, err := query.Compile(expr)
	if err != nil {
		return "", &QueryResolutionError{Query: expr, Err: err}
	}

	raw, err := r.Resolve(ctx, d.Data, cc)
	if err != nil {
		return "", err
	}

	doc, err := query.ParseDocument([]byte(raw))
	if err != nil {
		return "", &MalformedOutputError{Command: commandOf(d.Data), Raw: raw, Err: err}
	}

	result, ok := q.Evaluate(doc)
	if !ok {
		return "", &QueryResolutionError{Query: expr, Document: raw}
	}
	text, ok := query.Scalar(result)
	if !ok {
		return "", &QueryResolutionError{
			Query:    expr,
			Document: raw,
			Err:      fmt.Errorf("result is %s, not a scalar", result.Type().FriendlyName()),
		}
	}

	ctxlog.FromContext(ctx).Debug("Expression resolved.", "query", expr, "context", cc)
	return text, nil
}

func commandOf(v descriptor.Value) string {
	if c, ok := v.(descriptor.Command); ok {
		return c.Command
	}
	return ""
}

// ResolveConnection resolves every field of the named connection. The first
// failing field aborts the whole connection and no partial result is
// returned.
func (r *Resolver) ResolveConnection(ctx context.Context, cfg descriptor.Configuration, connection string, cc descriptor.ConnectionContext) (map[string]string, error) {
	fields, ok := cfg[connection]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownConnection, connection, strings.Join(cfg.Names(), ", "))
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving connection.", "connection", connection, "context", cc, "fields", len(fields))

	names := fields.Names()
	out := make(map[string]string, len(names))

	if r.concurrency < 2 {
		for _, name := range names {
			value, err := r.Resolve(ctx, fields[name], cc)
			if err != nil {
				return nil, &FieldError{Connection: connection, Field: name, Err: err}
			}
			out[name] = value
		}
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, name := range names {
		g.Go(func() error {
			value, err := r.Resolve(gctx, fields[name], cc)
			if err != nil {
				return &FieldError{Connection: connection, Field: name, Err: err}
			}
			mu.Lock()
			out[name] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
