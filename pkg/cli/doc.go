// Package cli implements the statemock command-line interface: the serve
// and validate subcommands and their configuration loading.
package cli
