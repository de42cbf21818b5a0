// Package file loads issuesync configuration from the filesystem and the
// environment.
//
// Settings are resolved in layers, each overriding the previous one:
//
//  1. built-in defaults (domain.DefaultAppSettings)
//  2. the TOML config file, by default ~/.issuesync/config.toml
//  3. a .env file in the working directory (never overriding real env vars)
//  4. environment variables
//
// Command-line flags are applied on top by the CLI.
package file
