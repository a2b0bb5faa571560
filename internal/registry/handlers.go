package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/devenv/internal/environment"
)

const originBuiltin = "built-in"

// RegisterEnvironment registers a built-in environment. Registering the same
// name twice is a programming error and panics.
func (r *Registry) RegisterEnvironment(env *environment.Environment) {
	if _, exists := r.environments[env.Name]; exists {
		panic(fmt.Sprintf("environment with name '%s' already registered", env.Name))
	}
	slog.Debug("Registering environment.", "name", env.Name)
	r.environments[env.Name] = env
	r.origins[env.Name] = originBuiltin
}
