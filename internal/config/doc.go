// Package config loads server configuration from environment variables.
//
// A .env file is honored when present. Host and port are the only values the
// reference deployment overrides; everything else has working defaults.
package config
