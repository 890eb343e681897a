// Package config provides configuration structures and utilities for notiontree.
// It defines the options for an export run, the optional YAML defaults file,
// and the XDG directory paths shared by the config file and the run journal.
package config
