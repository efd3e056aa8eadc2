// Package export serializes a finished crawl into its output formats.
//
// Three exporters implement the Exporter interface:
//   - JSONExporter: the self-contained structured graph document
//     (nodes with attributes, edges with endpoints, cluster metadata),
//     re-importable via Load
//   - MarkdownExporter: a human-readable crawl summary
//   - Neo4jExporter: a bulk load into a Neo4j property graph
//
// Multi fans one result out to several destinations and continues past
// individual failures, so a broken database connection does not lose
// the JSON document.
package export
