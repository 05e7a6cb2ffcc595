// Package config handles configuration loading, parsing, and validation.
//
// Values are resolved by viper with the precedence: command-line flags,
// SYNAPSE_-prefixed environment variables, an optional config.yaml file,
// then built-in defaults. The result is validated with struct tags before
// any component sees it.
package config
