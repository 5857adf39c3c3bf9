// Package cpu implements the search coordinator on CPU goroutines.
//
// The search runs in fixed-size batches. Each batch is split across a pool
// of workers (candidate i goes to worker i mod workers) and the matches are
// collected back in candidate index order. Two atomics coordinate the pool:
// a monotone attempt counter and a one-way found flag.
package cpu

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

var (
	// ErrWorkerJoin reports a worker that terminated abnormally. The attempt
	// count and match delivery of the run can no longer be trusted.
	ErrWorkerJoin = errors.New("worker terminated unexpectedly")

	// ErrChannelClosed reports a match channel that closed before a
	// single-shot search delivered its match.
	ErrChannelClosed = errors.New("match channel closed prematurely")

	// ErrAlreadyStarted is returned by a second call to Start on the same
	// CPUGenerator.
	ErrAlreadyStarted = errors.New("search already started")
)

var _ generator.Generator = (*CPUGenerator)(nil)

// Option configures a CPUGenerator.
type Option func(*CPUGenerator)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(g *CPUGenerator) { g.log = log }
}

// WithVerifier installs a self-check run on every matching candidate before
// it is reported. A candidate failing the check is dropped.
func WithVerifier(verify func(*generator.Candidate) error) Option {
	return func(g *CPUGenerator) { g.verify = verify }
}

// CPUGenerator implements the Generator interface using CPU-based goroutines.
type CPUGenerator struct {
	attempts  atomic.Uint64 // Total attempts, failed generations included
	found     atomic.Bool   // Set on the first match, never reset within a run
	genErrors atomic.Uint64 // Swallowed generation failures
	startTime time.Time     // When generation started
	workers   int           // Number of concurrent workers

	source  generator.CandidateSource
	matcher generator.Matcher
	verify  func(*generator.Candidate) error
	log     *zap.Logger

	started atomic.Bool
	done    chan struct{}
	err     error
}

// NewCPUGenerator creates a new CPU-based generator.
// If workers is 0, it defaults to the number of CPU cores.
func NewCPUGenerator(workers int, source generator.CandidateSource, matcher generator.Matcher, opts ...Option) *CPUGenerator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g := &CPUGenerator{
		workers: workers,
		source:  source,
		matcher: matcher,
		log:     zap.NewNop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the implementation name.
func (g *CPUGenerator) Name() string {
	return "CPU"
}

// Stats returns the current performance statistics.
func (g *CPUGenerator) Stats() generator.Stats {
	attempts := g.attempts.Load()
	elapsed := time.Since(g.startTime).Seconds()

	var hashRate float64
	if elapsed > 0 {
		hashRate = float64(attempts) / elapsed
	}

	return generator.Stats{
		Attempts:    attempts,
		HashRate:    hashRate,
		ElapsedSecs: elapsed,
		Found:       g.found.Load(),
	}
}

// GenerationErrors returns how many candidates failed to generate.
func (g *CPUGenerator) GenerationErrors() uint64 {
	return g.genErrors.Load()
}

// Start begins the search. A CPUGenerator runs a single search; create a new
// one per run.
func (g *CPUGenerator) Start(ctx context.Context, config *generator.Config) (<-chan generator.MatchEvent, error) {
	if !g.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}

	workers := g.workers
	if config.Workers > 0 {
		workers = config.Workers
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = generator.DefaultBatchSize
	}
	continuous := config.Continuous

	g.attempts.Store(0)
	g.found.Store(false)
	g.startTime = time.Now()

	queue := newMatchQueue()
	go func() {
		defer close(g.done)
		defer queue.Close()
		g.err = g.search(ctx, queue, workers, batchSize, continuous)
	}()

	return queue.Out(), nil
}

// Wait blocks until the batch loop has returned and the match channel is
// closed for new events.
func (g *CPUGenerator) Wait() error {
	if !g.started.Load() {
		return nil
	}
	<-g.done
	return g.err
}

// search is the batch-driving loop.
func (g *CPUGenerator) search(ctx context.Context, queue *matchQueue, workers, batchSize int, continuous bool) error {
	for batch := 0; ; batch++ {
		if !continuous && g.found.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			g.log.Debug("search cancelled", zap.Int("batches", batch))
			return nil
		default:
		}

		matches, err := g.runBatch(ctx, workers, batchSize, continuous)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			continue
		}

		if !continuous {
			// Lowest candidate index in the batch wins.
			queue.Push(matches[0])
			g.log.Debug("match found, stopping", zap.Int("batch", batch), zap.Int("simultaneous", len(matches)))
			return nil
		}
		for _, m := range matches {
			queue.Push(m)
		}
	}
}

type indexedMatch struct {
	index int
	event generator.MatchEvent
}

// runBatch generates one batch across the worker pool and returns its
// matches ordered by candidate index.
func (g *CPUGenerator) runBatch(ctx context.Context, workers, batchSize int, continuous bool) ([]generator.MatchEvent, error) {
	if workers > batchSize {
		workers = batchSize
	}

	eg, ctx := errgroup.WithContext(ctx)
	slots := make([][]indexedMatch, workers)
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Wrapf(ErrWorkerJoin, "worker %d: %v", w, r)
				}
			}()
			slots[w] = g.worker(ctx, w, workers, batchSize, continuous)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return mergeSlots(slots), nil
}

// mergeSlots flattens per-worker matches into candidate index order.
func mergeSlots(slots [][]indexedMatch) []generator.MatchEvent {
	var merged []indexedMatch
	for _, s := range slots {
		merged = append(merged, s...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].index < merged[j].index })

	events := make([]generator.MatchEvent, len(merged))
	for i, m := range merged {
		events[i] = m.event
	}
	return events
}

// worker handles candidates slot, slot+stride, ... of one batch.
func (g *CPUGenerator) worker(ctx context.Context, slot, stride, batchSize int, continuous bool) []indexedMatch {
	var matches []indexedMatch
	for i := slot; i < batchSize; i += stride {
		// In-flight candidates finish; new ones are not started once a
		// single-shot search has its match.
		if !continuous && g.found.Load() {
			return matches
		}
		select {
		case <-ctx.Done():
			return matches
		default:
		}

		attempts := g.attempts.Add(1)

		candidate, err := g.source.Generate()
		if err != nil {
			if g.genErrors.Add(1) == 1 {
				g.log.Debug("candidate generation failed", zap.Error(err))
			}
			continue
		}

		pattern, ok := g.matcher.Find(&candidate)
		if !ok {
			continue
		}
		if g.verify != nil {
			if err := g.verify(&candidate); err != nil {
				g.genErrors.Add(1)
				g.log.Error("matched candidate failed self-check", zap.Error(err))
				continue
			}
		}

		g.found.Store(true)
		matches = append(matches, indexedMatch{
			index: i,
			event: generator.MatchEvent{
				Candidate: candidate,
				Pattern:   pattern,
				Attempts:  attempts,
				Elapsed:   time.Since(g.startTime),
			},
		})
	}
	return matches
}
