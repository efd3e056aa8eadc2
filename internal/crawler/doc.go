// Package crawler discovers the UNBIS Thesaurus topic graph.
//
// The crawl starts from a set of root topic identifiers (by default the
// meta topics listed on the categories landing page) and recursively
// follows subtopic and related-topic references. Three properties drive
// the design:
//
//   - At-most-once fetching: every topic identifier is claimed in a
//     shared ledger before it is fetched, so shared subtopics and cycles
//     never cause duplicate work or non-termination.
//   - Bounded parallelism: a weighted semaphore caps the number of
//     in-flight fetches; dispatch blocks rather than fails when the
//     bound is saturated.
//   - Termination by reference counting: a WaitGroup tracks
//     dispatched-but-unfinished tasks. The unit for a child is added
//     inside the parent's task, before the parent finishes, so the
//     counter reaching zero means no work remains anywhere.
//
// Per-topic fetch and parse failures are counted and logged but never
// abort the crawl; the accumulated partial graph is always returned.
package crawler
