// Package config loads storecheck configuration from local and global YAML
// files with precedence rules. CLI code maps flags and files into client,
// runner and scanner settings.
package config
