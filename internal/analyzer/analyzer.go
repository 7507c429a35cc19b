// Package analyzer reads the augment regions of the screen concurrently and
// ranks what it finds against the selected hero's augments.
//
// Each region runs capture, preprocessing, recognition and matching on one
// worker of a fixed pool sized to the region count. Workers own their capture
// and recognition handles, created on first use and released by Close.
// Failures stay inside their region's Result.
package analyzer

import (
	"context"
	"errors"
	"image"
	"sort"
	"sync"

	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/dataset"
	"github.com/ironsheep/hextech-overlay/internal/fuzzy"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
)

// MatchThreshold is the score an approximate augment match must exceed.
const MatchThreshold = 50

// ErrClosed is returned by Analyze after Close.
var ErrClosed = errors.New("analyzer closed")

// Region is a named screen rectangle showing one augment.
type Region struct {
	Key  string
	Rect image.Rectangle
}

// Options configures an Analyzer.
type Options struct {
	Regions []Region
	Heroes  dataset.HeroIndex
	// Matcher defaults to fuzzy.Levenshtein.
	Matcher fuzzy.Matcher
	// Capture and Recognize create one handle per worker.
	Capture   capture.Factory
	Recognize ocr.Factory
	// Scale is the upscale factor before recognition, 2 when unset.
	Scale    float64
	Contrast float64
	Logger   *logger.Logger
}

// Analyzer runs region analyses on a fixed worker pool.
type Analyzer struct {
	regions  []Region
	heroes   dataset.HeroIndex
	names    map[string][]string
	matcher  fuzzy.Matcher
	scale    float64
	contrast float64
	log      *logger.Logger

	mu     sync.RWMutex
	closed bool
	tasks  chan task
	wg     sync.WaitGroup
}

type task struct {
	region Region
	hero   string
	reply  chan<- Result
}

// New starts the worker pool and returns an Analyzer ready for Analyze.
//
// Parameters:
//   - opts.Regions: the capture regions, in display order. One worker is
//     started per region (at least one).
//   - opts.Heroes: the augment data results are matched against.
//   - opts.Capture, opts.Recognize: factories for the per-worker capture and
//     recognition handles.
//   - opts.Scale: upscale factor before recognition, 2 when unset.
//   - opts.Matcher: approximate matcher, fuzzy.Levenshtein when nil.
//
// # Worker Handles
//
// Each worker owns one capturer and one recognizer, created on its first task
// and reused afterwards. A worker whose task panics discards both handles and
// builds new ones on its next task. Close stops the workers and closes every
// handle that implements io.Closer.
func New(opts Options) *Analyzer {
	if opts.Matcher == nil {
		opts.Matcher = fuzzy.Levenshtein{}
	}
	if opts.Scale <= 0 {
		opts.Scale = 2
	}

	a := &Analyzer{
		regions:  append([]Region(nil), opts.Regions...),
		heroes:   opts.Heroes,
		names:    augmentNames(opts.Heroes),
		matcher:  opts.Matcher,
		scale:    opts.Scale,
		contrast: opts.Contrast,
		log:      logger.Or(opts.Logger, "analyzer"),
		tasks:    make(chan task),
	}

	n := len(a.regions)
	if n == 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		w := &worker{id: i, a: a, arena: arena{newCapturer: opts.Capture, newRecognizer: opts.Recognize}}
		a.wg.Add(1)
		go w.run()
	}

	a.log.Debug().Int("workers", n).Int("regions", len(a.regions)).Msg("analyzer started")
	return a
}

// Regions returns the configured regions in order.
func (a *Analyzer) Regions() []Region { return a.regions }

// Analyze reads every region for hero and marks the best pick.
//
// Parameters:
//   - ctx: checked before any region is dispatched. Region work that has
//     started is not cancelled.
//   - hero: a hero key from the index. An empty hero returns an empty map
//     without dispatching anything.
//
// Returns:
//   - Results: one Result per region, keyed by region key. Failures are
//     reported inside the Result (IsError, Err), never as the error value.
//   - error: ctx's error if it was done before dispatch, or ErrClosed after
//     Close.
//
// # Best Pick
//
// Among the non-error results, every one sharing the lowest GlobalRank gets
// IsBest. When all regions fail nothing is marked.
//
// Analyze blocks until all regions finish. Concurrent calls are allowed and
// share the pool.
func (a *Analyzer) Analyze(ctx context.Context, hero string) (Results, error) {
	results := make(Results, len(a.regions))
	if hero == "" {
		return results, nil
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return results, ErrClosed
	}

	reply := make(chan Result, len(a.regions))
	for _, r := range a.regions {
		a.tasks <- task{region: r, hero: hero, reply: reply}
	}
	for range a.regions {
		res := <-reply
		results[res.RegionKey] = res
	}

	markBest(results)

	ev := a.log.Info().Str("hero", hero)
	for _, r := range a.regions {
		res := results[r.Key]
		ev = ev.Str(r.Key, res.Text)
	}
	ev.Strs("best", results.Best(a.regions)).Msg("analysis complete")

	return results, nil
}

// Close stops the workers and releases their handles. It waits for running
// analyses to finish.
func (a *Analyzer) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.tasks)
	a.mu.Unlock()

	a.wg.Wait()
	return nil
}

func augmentNames(heroes dataset.HeroIndex) map[string][]string {
	names := make(map[string][]string, len(heroes))
	for hero, augs := range heroes {
		list := make([]string, 0, len(augs))
		for name := range augs {
			list = append(list, name)
		}
		sort.Strings(list)
		names[hero] = list
	}
	return names
}
