// Package config loads and validates the crosstalk TOML configuration.
// Loading resolves the config path (explicit flag, then the user config
// directory, then a project-local crosstalk.toml), applies defaults,
// expands ~ in paths, and validates every section before returning.
package config
