// Package main provides the entry point for the unbisgraph CLI.
//
// unbisgraph crawls the UNBIS Thesaurus, the United Nations multilingual
// subject vocabulary, and builds a directed topic graph that can be
// exported as a JSON document or loaded into a Neo4j database.
//
// Usage:
//
//	unbisgraph crawl
//	unbisgraph crawl --root 01 --root 02
//	unbisgraph load graph.json
//
// See --help for all available options.
package main

// main is the entry point for unbisgraph.
func main() {
	Execute()
}
