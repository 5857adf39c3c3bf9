// Package ui handles terminal output: banners, the live throughput line and
// number formatting.
package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

// DefaultRefresh is how often the monitor samples the counters.
const DefaultRefresh = 100 * time.Millisecond

// ErrCeilingReached is returned by Monitor.Run when the safety ceiling expires.
var ErrCeilingReached = errors.New("time ceiling reached")

// Renderer displays sampled statistics.
type Renderer interface {
	Update(stats generator.Stats)
	Finish()
}

// Monitor periodically samples a stats source and renders it. It only reads
// the counters, so it never slows the search down.
type Monitor struct {
	Interval time.Duration // Sampling period (DefaultRefresh when 0)
	Ceiling  time.Duration // Stop after this long, 0 for no limit
	Renderer Renderer      // nil renders nothing
}

// Run samples until ctx is done or the ceiling expires.
func (m *Monitor) Run(ctx context.Context, stats func() generator.Stats) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultRefresh
	}
	render := m.Renderer
	if render == nil {
		render = nopRenderer{}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if m.Ceiling > 0 {
		timer := time.NewTimer(m.Ceiling)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			render.Update(stats())
			render.Finish()
			return nil
		case <-deadline:
			render.Update(stats())
			render.Finish()
			return ErrCeilingReached
		case <-ticker.C:
			render.Update(stats())
		}
	}
}

type nopRenderer struct{}

func (nopRenderer) Update(generator.Stats) {}
func (nopRenderer) Finish()                {}

// SpinnerRenderer draws a single animated status line.
type SpinnerRenderer struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

// NewSpinnerRenderer creates a spinner line writing to w.
func NewSpinnerRenderer(w io.Writer) *SpinnerRenderer {
	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Attempts: 0"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
	return &SpinnerRenderer{bar: bar, w: w}
}

// Update refreshes the line with the current attempt count and rate.
func (r *SpinnerRenderer) Update(stats generator.Stats) {
	r.bar.Describe(StatusLine(stats))
	_ = r.bar.Set64(int64(stats.Attempts))
}

// Finish leaves the line in its final state.
func (r *SpinnerRenderer) Finish() {
	r.bar.Describe("Complete!")
	_ = r.bar.Finish()
	fmt.Fprintln(r.w)
}

// StatusLine is the text shown on the live line.
func StatusLine(stats generator.Stats) string {
	return fmt.Sprintf("Attempts: %s │ %.0f keys/sec │ %s",
		FormatNumber(stats.Attempts),
		stats.HashRate,
		FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))))
}
