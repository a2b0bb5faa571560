// Package integration_tests drives the App end to end: environment files on
// disk, the registry, the resolver and the command runner together.
package integration_tests
