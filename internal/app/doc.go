// Package app contains the core application logic. It wires the registry,
// the HCL loader and the resolver together and exposes the operations the
// CLI needs, decoupled from any specific entrypoint.
package app
