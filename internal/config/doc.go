// Package config provides configuration structures and utilities for
// unbisgraph. It defines the crawl, export, and database settings, plus
// the YAML config file loader and its layered override rules.
package config
