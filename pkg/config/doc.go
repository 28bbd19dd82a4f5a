// Package config loads server configuration from a YAML file and
// environment variables. Environment variables (COMPLY_*) take
// precedence over the file, which takes precedence over defaults.
// Each attribute tracks the source its value came from so the
// `complyctl config show` command can report it.
package config
