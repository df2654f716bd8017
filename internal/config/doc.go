// Package config loads, normalizes, and validates the TOML configuration for
// ttabscan. Load applies defaults first, then overlays the user's file, so a
// partial config is always usable. Path fields come back expanded and
// absolute; API keys fall back to environment variables when unset.
package config
