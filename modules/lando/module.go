package lando

import (
	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/registry"
)

// Name is the registry key of the Lando environment.
const Name = "lando"

// InfoCommand prints the database service info as a JSON array.
const InfoCommand = "lando info --service database --format json"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the Lando environment to the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEnvironment(Environment())
}

// Environment returns the Lando definition.
func Environment() *environment.Environment {
	return &environment.Environment{
		Name:      Name,
		Label:     "Lando",
		Databases: Configuration(),
		Commands: map[environment.Action]string{
			environment.ActionSSH:     "lando ssh",
			environment.ActionStart:   "lando start",
			environment.ActionStop:    `lando poweroff && docker rm $(docker ps -aqf "status=exited")`,
			environment.ActionRestart: "lando restart",
			environment.ActionExecute: "lando ssh --command",
			environment.ActionLaunch:  `open --url $(lando info --service appserver_nginx --format json | jq --raw-output ".[].urls[-1]")`,
		},
	}
}

// Configuration returns the database connections of a Lando app. Lando
// reports `internal_connection` and `external_connection` objects, so a
// single template covers both contexts.
func Configuration() descriptor.Configuration {
	info := descriptor.Command{Command: InfoCommand}
	return descriptor.Configuration{
		"primary": descriptor.FieldSet{
			"type":     descriptor.Literal{Value: "mysql"},
			"database": descriptor.Literal{Value: "drupal"},
			"username": descriptor.Literal{Value: "drupal"},
			"password": descriptor.Literal{Value: "drupal"},
			"host": descriptor.Expression{
				Data:  info,
				Query: templated("[].{{ connection }}_connection.host | [0]"),
			},
			"port": descriptor.Expression{
				Data:  info,
				Query: templated("[].{{ connection }}_connection.port | [0]"),
			},
		},
	}
}

func templated(template string) descriptor.Query {
	return descriptor.MustQuery(descriptor.Templated(template, descriptor.DefaultContexts...))
}
