// Package schema holds the gohcl decoding targets for environment files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// File represents the top-level structure of an environment file.
type File struct {
	Environments []*Environment `hcl:"environment,block"`
}

// Environment represents an `environment` block.
type Environment struct {
	Name      string            `hcl:"name,label"`
	Label     string            `hcl:"label,optional"`
	Contexts  []string          `hcl:"contexts,optional"`
	Databases []*Database       `hcl:"database,block"`
	Commands  map[string]string `hcl:"commands,optional"`
}

// Database represents a `database` block. Plain attributes are literal
// fields and end up in Remain; derived fields are `field` blocks.
type Database struct {
	Name   string   `hcl:"name,label"`
	Fields []*Field `hcl:"field,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Field represents a `field` block: a command with an optional query.
type Field struct {
	Name     string         `hcl:"name,label"`
	Command  string         `hcl:"command"`
	Query    hcl.Expression `hcl:"query,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}
