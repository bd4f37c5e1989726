// Package config loads authctl settings: defaults, then an optional JSON file
// (-c / -config), then AUTHCTL_* environment variables, then flags.
package config
