package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/devenv/internal/environment"
)

// ErrUnknownEnvironment is returned when no environment has the requested name.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Module is the interface that all built-in environment modules implement.
type Module interface {
	Register(r *Registry)
}

// Registry holds the environments of a single application instance.
type Registry struct {
	environments map[string]*environment.Environment
	// origins records where each environment came from, for log messages.
	origins map[string]string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		environments: make(map[string]*environment.Environment),
		origins:      make(map[string]string),
	}
}

// Environment returns the environment registered under name.
func (r *Registry) Environment(name string) (*environment.Environment, error) {
	env, ok := r.environments[name]
	if !ok {
		available := r.Names()
		if len(available) == 0 {
			return nil, fmt.Errorf("%w %q: no environments are registered", ErrUnknownEnvironment, name)
		}
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownEnvironment, name, strings.Join(available, ", "))
	}
	return env, nil
}

// Names returns the registered environment names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.environments))
	for name := range r.environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered environments.
func (r *Registry) Len() int {
	return len(r.environments)
}
