// Package session runs one complete search: the coordinator, the output
// sink draining its match channel and the throughput monitor, and reports
// how the run ended.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/npubhunter/internal/ui"
	"github.com/Amr-9/npubhunter/pkg/generator"
	"github.com/Amr-9/npubhunter/pkg/generator/cpu"
	"github.com/Amr-9/npubhunter/pkg/generator/nostr"
)

// StopReason tells why a run ended.
type StopReason string

const (
	StopMatch     StopReason = "match"
	StopCancelled StopReason = "cancelled"
	StopCeiling   StopReason = "ceiling"
)

// Consumer handles match events in receipt order.
type Consumer interface {
	Consume(ev generator.MatchEvent) error
}

// Options describes one run.
type Options struct {
	Patterns      []string
	Kind          nostr.MatchKind
	CaseSensitive bool
	Workers       int
	BatchSize     int
	Continuous    bool
	Ceiling       time.Duration // Safety limit enforced by the monitor, 0 for none

	Source   generator.CandidateSource        // nostr.NewKeySource() when nil
	Engine   generator.Generator              // Replaces the CPU coordinator when set
	Verifier func(*generator.Candidate) error // Optional self-check of matches
	Sink     Consumer
	Renderer ui.Renderer // nil renders nothing
	Refresh  time.Duration
	Logger   *zap.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	RunID            string
	Attempts         uint64
	Matches          int
	Elapsed          time.Duration
	GenerationErrors uint64
	Reason           StopReason
}

// Run validates the patterns and, if they are valid, searches until the
// first match (single-shot) or until ctx is cancelled or the ceiling expires
// (continuous). Validation errors are returned before any key is generated.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if err := nostr.ValidatePatterns(opts.Patterns); err != nil {
		return Summary{}, err
	}
	if opts.Sink == nil {
		return Summary{}, errors.New("session: no sink configured")
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	source := opts.Source
	if source == nil {
		source = nostr.NewKeySource()
	}

	summary := Summary{RunID: uuid.NewString()}
	log = log.With(zap.String("run", summary.RunID))

	gen := opts.Engine
	if gen == nil {
		matcher := nostr.NewMatcher(opts.Patterns, opts.Kind, opts.CaseSensitive)
		cpuOpts := []cpu.Option{cpu.WithLogger(log.Named("search"))}
		if opts.Verifier != nil {
			cpuOpts = append(cpuOpts, cpu.WithVerifier(opts.Verifier))
		}
		gen = cpu.NewCPUGenerator(opts.Workers, source, matcher, cpuOpts...)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	events, err := gen.Start(runCtx, &generator.Config{
		Workers:    opts.Workers,
		BatchSize:  opts.BatchSize,
		Continuous: opts.Continuous,
	})
	if err != nil {
		return summary, err
	}

	log.Info("search started",
		zap.Strings("patterns", opts.Patterns),
		zap.Stringer("match_type", opts.Kind),
		zap.Bool("case_sensitive", opts.CaseSensitive),
		zap.Int("workers", opts.Workers),
		zap.Int("batch_size", opts.BatchSize),
		zap.Bool("continuous", opts.Continuous),
		zap.Duration("ceiling", opts.Ceiling))

	monitorCtx, stopMonitor := context.WithCancel(runCtx)
	defer stopMonitor()

	var ceilingHit atomic.Bool
	var eg errgroup.Group
	eg.Go(func() error {
		monitor := &ui.Monitor{Interval: opts.Refresh, Ceiling: opts.Ceiling, Renderer: opts.Renderer}
		err := monitor.Run(monitorCtx, gen.Stats)
		if errors.Is(err, ui.ErrCeilingReached) {
			ceilingHit.Store(true)
			log.Warn("time ceiling reached, stopping search", zap.Duration("ceiling", opts.Ceiling))
			cancel()
			return nil
		}
		return err
	})

	for ev := range events {
		summary.Matches++
		if err := opts.Sink.Consume(ev); err != nil {
			log.Warn("match could not be persisted", zap.Error(err))
		}
		if !opts.Continuous {
			break
		}
	}
	// Single-shot stops consuming after one event; the coordinator pushes no
	// more, so this only waits for the channel to close.
	for range events {
	}

	searchErr := gen.Wait()
	stopMonitor()
	if err := eg.Wait(); err != nil && searchErr == nil {
		searchErr = err
	}

	stats := gen.Stats()
	summary.Attempts = stats.Attempts
	summary.Elapsed = time.Since(start)
	if counter, ok := gen.(interface{ GenerationErrors() uint64 }); ok {
		summary.GenerationErrors = counter.GenerationErrors()
	}

	switch {
	case !opts.Continuous && summary.Matches > 0:
		summary.Reason = StopMatch
	case ceilingHit.Load():
		summary.Reason = StopCeiling
	default:
		summary.Reason = StopCancelled
	}

	// A single-shot search only stops on its own after delivering a match.
	if searchErr == nil && !opts.Continuous && summary.Matches == 0 && runCtx.Err() == nil {
		searchErr = cpu.ErrChannelClosed
	}

	fields := []zap.Field{
		zap.Uint64("attempts", summary.Attempts),
		zap.Int("matches", summary.Matches),
		zap.Duration("elapsed", summary.Elapsed),
		zap.Uint64("generation_errors", summary.GenerationErrors),
		zap.String("reason", string(summary.Reason)),
	}
	if searchErr != nil {
		log.Error("search failed", append(fields, zap.Error(searchErr))...)
		return summary, searchErr
	}
	log.Info("search finished", fields...)
	return summary, nil
}
