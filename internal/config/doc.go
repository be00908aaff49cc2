// Package config loads, normalizes, and validates poolconv configuration.
package config
