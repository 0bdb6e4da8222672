package internal

import "sync"

// PageSize is the number of results delivered per batch.
const PageSize = 50

// SplitPage separates the immediately delivered first page from the
// retained remainder.
func SplitPage(all []SearchResult) (first, rest []SearchResult) {
	if len(all) <= PageSize {
		return all, nil
	}
	return all[:PageSize], all[PageSize:]
}

// Pager holds the remainder of one search and serves it page by page.
// Starting a new search means building a new Pager; the old one is
// simply dropped.
type Pager struct {
	mu        sync.Mutex
	remaining []SearchResult
}

func NewPager(remaining []SearchResult) *Pager {
	return &Pager{remaining: remaining}
}

// LoadMore dequeues up to PageSize results from the front of the
// remainder. A drained pager returns nil; that is a no-op, not an error,
// and never re-triggers a search.
func (p *Pager) LoadMore() []SearchResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.remaining) == 0 {
		return nil
	}
	n := PageSize
	if n > len(p.remaining) {
		n = len(p.remaining)
	}
	batch := p.remaining[:n]
	p.remaining = p.remaining[n:]
	return batch
}

// Remaining reports how many results are still queued.
func (p *Pager) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.remaining)
}
