// Package config provides configuration structures and utilities for scamscan.
// It defines the classifier endpoint settings, progress animation timing,
// report format preferences and the YAML configuration file format.
package config
