package descriptor

import (
	"fmt"
	"slices"
	"strings"
)

// UnsupportedContextError reports a connection context with no query branch.
type UnsupportedContextError struct {
	Context   ConnectionContext
	Available []ConnectionContext
}

func (e *UnsupportedContextError) Error() string {
	names := make([]string, len(e.Available))
	for i, cc := range e.Available {
		names[i] = string(cc)
	}
	return fmt.Sprintf("connection context %q is not supported (available: %s)", e.Context, strings.Join(names, ", "))
}

// SelectContext returns requested if it is one of available. There is no
// fallback to another context.
func SelectContext(requested ConnectionContext, available []ConnectionContext) (ConnectionContext, error) {
	if slices.Contains(available, requested) {
		return requested, nil
	}
	return "", &UnsupportedContextError{Context: requested, Available: available}
}
