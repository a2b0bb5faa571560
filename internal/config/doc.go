// Package config defines the format-agnostic model of user-supplied
// environment definitions, along with the Loader interface that fills it.
//
// Concrete loaders, such as the HCL one, live in separate packages. The
// registry consumes the model without knowing which format produced it.
package config
