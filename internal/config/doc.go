// Package config provides application configuration loaded from environment
// variables (RETAIL_ prefix) with an optional config.yaml override file, plus
// the resolved filesystem layout for datasets, reports and logs.
//
// Environment variables always take precedence over the file. The loaded
// configuration is validated before use; the application refuses to start on
// an invalid configuration rather than limping along with partial settings.
package config
