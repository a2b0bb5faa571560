// Package hcl provides the HCL implementation of config.Loader. It parses
// environment files, decodes them with gohcl and translates the result into
// environment definitions whose fields are value descriptors.
package hcl
