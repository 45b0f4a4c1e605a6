// Package config loads, normalizes, and validates the TOML configuration for
// the Asset Forge daemon and CLI. Defaults live in defaults.go; path fields are
// tilde-expanded and provider API keys fall back to environment variables.
package config
