// Package model defines the core data structures used throughout unbisgraph.
//
// This package contains the following main types:
//   - Topic: One thesaurus entry with its multilingual labels
//   - Edge: A directed relation between two topics
//   - Graph: The terminal snapshot of a crawl
//   - CrawlResult: Graph plus summary counters for one run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, graph, export, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for the exported graph
// document and for crawl history storage.
package model
