// Package config holds the process-wide configuration of the rescaler.
//
// Values are layered, later sources winning:
//
//  1. Default()
//  2. an optional TOML file
//  3. RESCALE_* environment variables
//  4. command-line flags (applied by the caller)
//
// Validate must be called after the last layer is applied.
package config
