// Package config holds the configuration for logoscan.
//
// Configuration flows from CLI flags into a flat Config struct that is
// passed through the application via dependency injection rather than
// global state. An optional YAML file adds per-site overrides such as an
// explicit logo URL or request headers for gated pages.
package config
