// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It layers
// flags over settings, builds the App and renders its results.
package cli
