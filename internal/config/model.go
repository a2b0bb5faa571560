package config

import (
	"sort"

	"github.com/specialistvlad/devenv/internal/environment"
)

// Model is the unified, format-agnostic representation of user-defined
// environments.
type Model struct {
	Environments map[string]*environment.Environment
	// Sources maps an environment name to the file it was defined in.
	Sources map[string]string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Environments: make(map[string]*environment.Environment),
		Sources:      make(map[string]string),
	}
}

// Names returns the environment names in sorted order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Environments))
	for name := range m.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
