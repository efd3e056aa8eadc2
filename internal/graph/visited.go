package graph

import (
	"sync"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// Visited is the deduplication ledger of the crawl. A topic identifier
// is claimed exactly once for the lifetime of the crawl; the goroutine
// that wins the claim owns the fetch for that topic. There is no
// unclaim operation: claims are permanent, which is what guarantees
// termination on cyclic topic graphs.
type Visited struct {
	mu      sync.Mutex
	claimed map[model.TopicID]struct{}
}

// NewVisited creates an empty claim ledger.
func NewVisited() *Visited {
	return &Visited{
		claimed: make(map[model.TopicID]struct{}),
	}
}

// TryClaim atomically claims the identifier for the caller. It returns
// true exactly once per distinct identifier; every later call for the
// same identifier returns false, regardless of which goroutine made the
// first claim.
func (v *Visited) TryClaim(id model.TopicID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.claimed[id]; ok {
		return false
	}
	v.claimed[id] = struct{}{}
	return true
}

// Claimed reports whether the identifier has been claimed.
func (v *Visited) Claimed(id model.TopicID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.claimed[id]
	return ok
}

// Len returns the number of claimed identifiers.
func (v *Visited) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.claimed)
}
