package app

import (
	"github.com/specialistvlad/devenv/internal/environment"
)

// Environments returns every registered environment sorted by name.
func (a *App) Environments() []*environment.Environment {
	names := a.registry.Names()
	out := make([]*environment.Environment, 0, len(names))
	for _, name := range names {
		env, err := a.registry.Environment(name)
		if err != nil {
			continue
		}
		out = append(out, env)
	}
	return out
}
