// Package config defines the Meridian configuration model and its
// loading pipeline: YAML file, defaults, MERIDIAN_* environment
// overrides, validation, and an fsnotify-based reload watcher.
package config
