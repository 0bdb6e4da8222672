package internal

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Events receives the lifecycle notifications of one search. All
// callbacks are invoked from a single dispatcher goroutine, in order
// (OnReady then OnDone, or OnError alone), so the consumer side never
// needs its own locking.
type Events struct {
	// OnReady delivers the first page, the retained remainder and the
	// total count once the traversal has drained.
	OnReady func(first, remaining []SearchResult, total int)
	// OnDone reports elapsed wall time and the total count.
	OnDone func(elapsed time.Duration, total int)
	// OnError reports a failure before any traversal happened; compile
	// failures satisfy errors.Is(err, ErrBadPattern).
	OnError func(err error)
}

// Searcher runs concurrent searches. The zero value is usable.
type Searcher struct{}

func NewSearcher() *Searcher { return &Searcher{} }

// Start kicks off a search and returns immediately; the scan never
// blocks the caller. The token must be fresh for this invocation.
func (s *Searcher) Start(opts SearchOptions, tok *Token, ev Events) {
	go s.run(opts, tok, ev)
}

func (s *Searcher) run(opts SearchOptions, tok *Token, ev Events) {
	tok.Begin()

	// Single-consumer boundary: every Events call funnels through here.
	dispatch := make(chan func(), 16)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for fn := range dispatch {
			fn()
		}
	}()
	finish := func() {
		close(dispatch)
		<-consumed
	}

	var stats AppStats
	stats.Start()

	sc, err := Compile(opts)
	if err != nil {
		tok.finish()
		if ev.OnError != nil {
			dispatch <- func() { ev.OnError(err) }
		}
		finish()
		return
	}

	var (
		mu      sync.Mutex
		results []SearchResult
	)
	collect := func(r SearchResult) {
		stats.Matches.Add(1)
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(opts.Threads, func(i interface{}) {
		defer wg.Done()
		if !tok.Active() {
			return
		}
		t := i.(Task)
		stats.FilesProcessed.Add(1)
		if t.isArchive {
			if r, ok := processArchiveEntry(t.path, t.innerPath, sc); ok {
				collect(r)
			}
		} else if r, ok := ProcessFile(t.path, sc); ok {
			collect(r)
		}
	})
	if err != nil {
		tok.finish()
		if ev.OnError != nil {
			dispatch <- func() { ev.OnError(err) }
		}
		finish()
		return
	}
	defer pool.Release()

	fileCh := make(chan Task, 2048)
	go func() {
		defer close(fileCh)
		WalkTree(opts, sc, tok, &stats, func(t Task) {
			fileCh <- t
			if opts.Archives && IsArchive(t.path) {
				WalkArchive(t.path, sc, tok, &stats, func(at Task) {
					fileCh <- at
				})
			}
		})
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	closing := false
	for !closing {
		select {
		case t, ok := <-fileCh:
			if !ok {
				closing = true
				break
			}
			wg.Add(1)
			if err := pool.Invoke(t); err != nil {
				wg.Done()
				stats.Errors.Add(1)
				logrus.WithError(err).Error("submit task")
			}
		case <-ticker.C:
			logrus.Debugf("Stats: found=%d processed=%d matches=%d errors=%d",
				stats.FilesFound.Load(), stats.FilesProcessed.Load(),
				stats.Matches.Load(), stats.Errors.Load())
		}
	}
	wg.Wait()
	tok.finish()

	total := len(results)
	first, rest := SplitPage(results)
	elapsed := stats.Elapsed()

	if ev.OnReady != nil {
		dispatch <- func() { ev.OnReady(first, rest, total) }
	}
	if ev.OnDone != nil {
		dispatch <- func() { ev.OnDone(elapsed, total) }
	}
	finish()

	logrus.WithFields(logrus.Fields{
		"state":   tok.State(),
		"total":   total,
		"elapsed": elapsed,
	}).Info("Search finished")
}
