// Package config loads the bethere configuration from a TOML file with
// environment-variable overrides.
//
// Resolution order: built-in defaults, then the config file, then
// environment variables. The file is looked up at the path given on the
// command line, falling back to bethere.toml in the working directory and
// then config.toml under the user config directory (for example
// ~/.config/bethere/config.toml). A missing file is not an error; the
// defaults stand.
package config
