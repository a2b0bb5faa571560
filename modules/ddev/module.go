package ddev

import (
	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/registry"
)

// Name is the registry key of the DDev environment.
const Name = "ddev"

// DescribeCommand prints the project description as JSON.
const DescribeCommand = "ddev describe --json-output"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the DDev environment to the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEnvironment(Environment())
}

// Environment returns the DDev definition. It does no I/O.
func Environment() *environment.Environment {
	return &environment.Environment{
		Name:      Name,
		Label:     "DDev",
		Databases: Configuration(),
		Commands: map[environment.Action]string{
			environment.ActionSSH:     "ddev ssh",
			environment.ActionInfo:    "ddev describe",
			environment.ActionStart:   "ddev start",
			environment.ActionStop:    "ddev stop",
			environment.ActionRestart: "ddev restart",
			environment.ActionExecute: "ddev exec",
			environment.ActionLaunch:  `open --url $(ddev describe -j | jq --raw-output ".raw.primary_url")`,
		},
	}
}

// Configuration returns the database connections of a DDev project. Host and
// port come from `ddev describe`; inside the container network the database
// service is addressed directly, from the host through the published port.
func Configuration() descriptor.Configuration {
	describe := descriptor.Command{Command: DescribeCommand}
	return descriptor.Configuration{
		"primary": descriptor.FieldSet{
			"type":     descriptor.Literal{Value: "mysql"},
			"database": descriptor.Literal{Value: "db"},
			"username": descriptor.Literal{Value: "root"},
			"password": descriptor.Literal{Value: "root"},
			"host": descriptor.Expression{
				Data: describe,
				Query: descriptor.MustQuery(descriptor.PerContext(map[descriptor.ConnectionContext]string{
					descriptor.Internal: "raw.dbinfo.host",
					descriptor.External: "raw.hostname",
				})),
			},
			"port": descriptor.Expression{
				Data: describe,
				Query: descriptor.MustQuery(descriptor.PerContext(map[descriptor.ConnectionContext]string{
					descriptor.Internal: "raw.dbinfo.dbPort",
					descriptor.External: "raw.dbinfo.published_port",
				})),
			},
		},
	}
}
