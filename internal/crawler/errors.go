package crawler

import "errors"

// Crawl errors. Per-topic failures are recorded in counters and never
// abort the crawl; only ErrRootsUnreachable (and external cancellation)
// is fatal for the run as a whole.
var (
	// ErrUnexpectedStatus is returned when the thesaurus responds with a
	// non-200 status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrEmptyDocument is returned when a topic page decodes to an
	// empty JSON-LD graph.
	ErrEmptyDocument = errors.New("empty JSON-LD document")

	// ErrMalformedDocument is returned when a page does not match the
	// expected SKOS document structure.
	ErrMalformedDocument = errors.New("malformed SKOS document")

	// ErrNoSeeds is returned when a crawl is started without root topic
	// identifiers and seed discovery found none.
	ErrNoSeeds = errors.New("no root topics to crawl")

	// ErrRootsUnreachable is returned when every seed topic failed to
	// fetch. The crawl yields an empty graph in this case.
	ErrRootsUnreachable = errors.New("all root topics failed to fetch")
)
