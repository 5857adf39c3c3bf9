package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

// Sink consumes match events: it prints them, and appends them to the
// configured output file.
type Sink struct {
	console  io.Writer // nil in quiet mode
	fallback io.Writer // receives the block when persistence fails
	path     string
	csv      bool
	log      *zap.Logger

	handled int
}

// SinkConfig holds the sink settings.
type SinkConfig struct {
	Console  io.Writer // Where result blocks are printed (nil to stay quiet)
	Fallback io.Writer // Where blocks go when the output file cannot be written
	Path     string    // Output file, empty for none
	CSV      bool      // Write CSV rows instead of text blocks
	Logger   *zap.Logger
}

// NewSink creates a sink.
func NewSink(cfg SinkConfig) *Sink {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = os.Stderr
	}
	return &Sink{
		console:  cfg.Console,
		fallback: fallback,
		path:     cfg.Path,
		csv:      cfg.CSV,
		log:      log,
	}
}

// Handled returns the number of events consumed so far.
func (s *Sink) Handled() int {
	return s.handled
}

// Consume handles one event. A persistence failure is returned after the
// block has been written to the fallback writer, so the key is not lost.
func (s *Sink) Consume(ev generator.MatchEvent) error {
	s.handled++
	block := FormatText(&ev)

	if s.console != nil {
		fmt.Fprintf(s.console, "\n%s\n", block)
	}

	s.log.Info("match found",
		zap.String("pattern", patternValue(&ev)),
		zap.String("npub", ev.Candidate.PublicID),
		zap.Uint64("attempts", ev.Attempts),
		zap.Duration("elapsed", ev.Elapsed))

	if s.path == "" {
		return nil
	}

	var err error
	if s.csv {
		err = AppendCSV(s.path, &ev)
	} else {
		err = AppendText(s.path, &ev)
	}
	if err != nil {
		s.log.Error("failed to save result", zap.String("path", s.path), zap.Error(err))
		fmt.Fprintf(s.fallback, "\n%s\n", block)
		return err
	}
	return nil
}

// AppendText appends the human-readable block to path.
func AppendText(path string, ev *generator.MatchEvent) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}

	if _, err := fmt.Fprintln(f, FormatText(ev)); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// AppendCSV appends a CSV row to path, writing the header first when the
// file did not exist before.
func AppendCSV(path string, ev *generator.MatchEvent) error {
	_, statErr := os.Stat(path)
	exists := statErr == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(CSVHeader); err != nil {
			f.Close()
			return errors.Wrapf(err, "write header %s", path)
		}
	}
	if err := w.Write(CSVRecord(ev)); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flush %s", path)
	}
	return f.Close()
}
