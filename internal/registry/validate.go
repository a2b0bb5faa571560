package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/devenv/internal/ctxlog"
)

// ValidateRegistry checks every registered environment and reports all
// problems at once.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		env := r.environments[name]
		if env.Name != name {
			errs = append(errs, fmt.Sprintf("environment registered as '%s' is named '%s'", name, env.Name))
			continue
		}
		if err := env.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%v (from %s)", err, r.origins[name]))
			continue
		}
		if len(env.Databases) == 0 {
			logger.Warn("Environment defines no database connections.", "environment", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
