package registry

import (
	"context"

	"github.com/specialistvlad/devenv/internal/config"
	"github.com/specialistvlad/devenv/internal/ctxlog"
)

// PopulateFromModel merges user-defined environments from the config model.
// A user definition replaces a built-in environment of the same name.
func (r *Registry) PopulateFromModel(ctx context.Context, model *config.Model) {
	logger := ctxlog.FromContext(ctx)
	if model == nil {
		return
	}

	for _, name := range model.Names() {
		env := model.Environments[name]
		source := model.Sources[name]
		if prev, exists := r.origins[name]; exists {
			logger.Info("User definition overrides environment.", "name", name, "previous", prev, "file", source)
		} else {
			logger.Debug("Adding user-defined environment.", "name", name, "file", source)
		}
		r.environments[name] = env
		r.origins[name] = source
	}
}
