// Package descriptor defines how configuration values are described: as a
// literal, as the output of a shell command, or as a query over the JSON a
// command prints. Descriptors are plain immutable data; resolving them is the
// job of package resolver.
package descriptor

import (
	"sort"
)

// ConnectionContext is the vantage point from which a connection is made.
// It is supplied by the caller and never inferred.
type ConnectionContext string

const (
	// Internal is the view from inside the container network.
	Internal ConnectionContext = "internal"
	// External is the view from the host machine.
	External ConnectionContext = "external"
)

// DefaultContexts are the contexts an environment supports when it does not
// declare its own.
var DefaultContexts = []ConnectionContext{Internal, External}

// Value describes how to obtain a single configuration value. It is one of
// Literal, Command or Expression.
type Value interface {
	isValue()
}

// Literal resolves to Value without running anything.
type Literal struct {
	Value string
}

// Command resolves to the trimmed standard output of a shell command.
type Command struct {
	Command string
}

// Expression resolves Data, parses the result as JSON and extracts a scalar
// with Query.
type Expression struct {
	Data  Value
	Query Query
}

func (Literal) isValue()    {}
func (Command) isValue()    {}
func (Expression) isValue() {}

// FieldSet maps field names (host, port, username...) to their descriptors.
type FieldSet map[string]Value

// Names returns the field names in sorted order.
func (fs FieldSet) Names() []string {
	return sortedKeys(fs)
}

// Configuration maps connection names to their field sets. It is built once
// per environment and only read afterwards.
type Configuration map[string]FieldSet

// Names returns the connection names in sorted order.
func (c Configuration) Names() []string {
	return sortedKeys(c)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
