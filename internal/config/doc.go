// Package config loads, normalizes, and validates inform-compile configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the INFORM_BIN environment
// fallback for the compiler binary. The Config type centralizes the compiler,
// output, history, and logging knobs so the CLI can overlay explicit flags on
// top of a single resolved value.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical stage and log format names, and clear validation
// errors.
package config
