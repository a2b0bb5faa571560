package testutil

import (
	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/registry"
)

// StaticModule registers an environment whose connection is made of literals
// only, so resolving it never runs a command.
type StaticModule struct{}

// StaticEnvironment is the name StaticModule registers.
const StaticEnvironment = "static"

// Register implements registry.Module.
func (m *StaticModule) Register(r *registry.Registry) {
	r.RegisterEnvironment(&environment.Environment{
		Name:  StaticEnvironment,
		Label: "Static",
		Databases: descriptor.Configuration{
			"primary": descriptor.FieldSet{
				"type":     descriptor.Literal{Value: "pgsql"},
				"host":     descriptor.Literal{Value: "localhost"},
				"port":     descriptor.Literal{Value: "5432"},
				"database": descriptor.Literal{Value: "app"},
				"username": descriptor.Literal{Value: "app"},
				"password": descriptor.Literal{Value: ""},
			},
		},
		Commands: map[environment.Action]string{
			environment.ActionInfo: "echo static",
		},
	})
}
