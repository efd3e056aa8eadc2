// Package graph provides the two shared mutable states of a crawl: the
// Visited claim ledger and the graph Store.
//
// Both types serialize concurrent mutation internally with a mutex per
// operation. The operations are deliberately idempotent and commutative
// (claims are permanent, node insertion is first-writer-wins, edge
// insertion deduplicates by ordered pair), so the crawler never needs
// multi-operation locking and any interleaving of concurrent discovery
// converges to the same final graph.
package graph
