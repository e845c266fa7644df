// Package config loads application configuration from environment variables.
//
// All settings have development-friendly defaults except DISCORD_TOKEN,
// which must always be provided. Call Load followed by Validate; Validate
// reports every problem at once via errors.Join.
package config
