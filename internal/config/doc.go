// ABOUTME: Package config loads and validates slugline-gateway configuration
// ABOUTME: Supports YAML files with environment variable expansion

// Package config handles loading and validation of the gateway configuration
// file. Configuration is YAML with ${VAR} environment variable expansion.
package config
