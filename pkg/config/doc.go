// Package config defines the statemock configuration file format and its
// loaders.
//
// A configuration file (YAML or JSON) holds a Collection: server settings,
// static mock definitions (optionally grouped into folders), and stateful
// endpoint configurations. Collections can be loaded from a single file,
// from every matching file in a directory tree, or from a glob pattern.
// Loaded collections are validated before use; validation distinguishes hard
// errors from lint warnings such as transitions that can never fire.
package config
