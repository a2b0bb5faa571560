// Package registry holds the environments known to a single application
// instance.
//
// Built-in environments are registered by Go modules (see modules/ddev and
// modules/lando); user-defined ones are merged in from the configuration
// model. Each App owns its own Registry, so nothing here is process-global.
package registry
