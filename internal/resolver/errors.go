package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/devenv/internal/descriptor"
)

// ErrUnknownConnection is returned when a configuration has no connection of
// the requested name.
var ErrUnknownConnection = errors.New("unknown connection")

// UnsupportedContextError is returned when a contextual query has no branch
// for the requested connection context.
type UnsupportedContextError = descriptor.UnsupportedContextError

// CommandExecutionError reports a command that exited non-zero or could not
// be run at all. In the latter case Err holds the cause and ExitCode is -1.
type CommandExecutionError struct {
	Command  string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	}
	msg := fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandExecutionError) Unwrap() error { return e.Err }

// MalformedOutputError reports data that is not valid JSON. Command is empty
// when the data did not come directly from a command.
type MalformedOutputError struct {
	Command string
	Raw     string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("output is not valid JSON: %v", e.Err)
	}
	return fmt.Sprintf("output of %q is not valid JSON: %v", e.Command, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// QueryResolutionError reports a query that did not yield a scalar.
type QueryResolutionError struct {
	Query    string
	Document string
	Err      error
}

func (e *QueryResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("query %q matched nothing", e.Query)
}

func (e *QueryResolutionError) Unwrap() error { return e.Err }

// FieldError identifies the field of a connection that failed to resolve.
type FieldError struct {
	Connection string
	Field      string
	Err        error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("connection %q, field %q: %v", e.Connection, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
