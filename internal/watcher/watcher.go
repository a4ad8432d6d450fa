// Package watcher implements the poll → detect → convert → replace loop that
// keeps LaTeX on the clipboard translated to Typst.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/tex2typ/internal/clip"
	"go.klb.dev/tex2typ/internal/convert"
	"go.klb.dev/tex2typ/internal/detect"
)

const (
	// DefaultInterval is the delay between poll cycles.
	DefaultInterval = 500 * time.Millisecond

	// DefaultMaxReadFailures is how many consecutive clipboard read errors
	// Run tolerates before giving up.
	DefaultMaxReadFailures = 20

	// readErrorBackoff multiplies the interval after a failed read.
	readErrorBackoff = 5
)

// Outcome is the result of a single poll cycle.
type Outcome string

const (
	Unchanged Outcome = "unchanged"  // same as last seen
	Empty     Outcome = "empty"      // nothing on the clipboard
	NotLaTeX  Outcome = "not_latex"  // new text, rejected by the detector
	Converted Outcome = "converted"  // clipboard replaced with converter output
	Failed    Outcome = "failed"     // conversion or write failed, clipboard untouched
	ReadError Outcome = "read_error" // clipboard could not be read
)

// Config controls a Watcher. Zero values select the defaults.
type Config struct {
	Interval        time.Duration
	Target          string      // converter output format, default "typst"
	Detect          detect.Func // default detect.IsLaTeX
	MaxReadFailures int         // consecutive read errors before Run fails; <0 means never
	IgnoreExisting  bool        // treat the clipboard at startup as already seen
}

// Stats counts what a Watcher has done.
type Stats struct {
	Ticks      int
	Converted  int
	Failed     int
	Skipped    int
	ReadErrors int
}

// Watcher polls a clipboard and converts new LaTeX text in place.
// It is not safe for concurrent use; Run owns it until it returns.
type Watcher struct {
	clip clip.Backend
	conv convert.Converter
	cfg  Config

	lastSeen     string
	readFailures int
	lastReadErr  error
	stats        Stats
}

// New returns a Watcher reading and writing cb and converting through conv.
func New(cb clip.Backend, conv convert.Converter, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Target == "" {
		cfg.Target = convert.FormatTypst
	}
	if cfg.Detect == nil {
		cfg.Detect = detect.IsLaTeX
	}
	if cfg.MaxReadFailures == 0 {
		cfg.MaxReadFailures = DefaultMaxReadFailures
	}
	return &Watcher{clip: cb, conv: conv, cfg: cfg}
}

// LastSeen returns the text most recently read or written by the loop.
func (w *Watcher) LastSeen() string { return w.lastSeen }

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats { return w.stats }

// Prime records the current clipboard as already seen so text that was there
// before startup is left alone.
func (w *Watcher) Prime() error {
	text, err := w.clip.ReadText()
	if err != nil {
		return fmt.Errorf("read initial clipboard: %w", err)
	}
	w.lastSeen = text
	return nil
}

// Tick runs one poll cycle. Errors are logged, never returned.
func (w *Watcher) Tick(ctx context.Context) Outcome {
	w.stats.Ticks++

	text, err := w.clip.ReadText()
	if err != nil {
		w.readFailures++
		w.lastReadErr = err
		w.stats.ReadErrors++
		slog.Error("clipboard read failed", "err", err, "consecutive", w.readFailures)
		return ReadError
	}
	w.readFailures = 0

	if text == "" {
		w.lastSeen = ""
		return Empty
	}
	if text == w.lastSeen {
		return Unchanged
	}

	logChange("new clipboard content", text, changePreview)

	if !w.cfg.Detect(text) {
		slog.Debug("not recognised as LaTeX, skipping")
		w.lastSeen = text
		w.stats.Skipped++
		return NotLaTeX
	}

	start := time.Now()
	out, err := w.conv.Convert(ctx, text, w.cfg.Target)
	if err != nil {
		w.reportConvertError(err)
		w.lastSeen = text
		w.stats.Failed++
		return Failed
	}

	if err := w.clip.WriteText(out); err != nil {
		slog.Error("clipboard write failed", "err", err)
		w.lastSeen = text
		w.stats.Failed++
		return Failed
	}
	w.lastSeen = out
	w.stats.Converted++

	slog.Info("converted clipboard",
		"target", w.cfg.Target,
		"in_bytes", len(text),
		"out_bytes", len(out),
		"took", time.Since(start).Round(time.Millisecond),
	)
	logChange("converted output", out, outputPreview)
	return Converted
}

// Run polls until ctx is cancelled, returning nil, or until the clipboard
// has failed to read MaxReadFailures times in a row.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("watching clipboard",
		"backend", w.clip.Name(),
		"interval", w.cfg.Interval,
		"target", w.cfg.Target,
	)

	if w.cfg.IgnoreExisting {
		if err := w.Prime(); err != nil {
			slog.Warn("could not read initial clipboard", "err", err)
		}
	}

	for {
		if ctx.Err() != nil {
			break
		}

		delay := w.cfg.Interval
		if w.Tick(ctx) == ReadError {
			if w.cfg.MaxReadFailures > 0 && w.readFailures >= w.cfg.MaxReadFailures {
				return fmt.Errorf("clipboard read failed %d times in a row: %w",
					w.readFailures, w.lastReadErr)
			}
			delay *= readErrorBackoff
			slog.Info("retrying clipboard", "in", delay)
		}

		if !sleep(ctx, delay) {
			break
		}
	}

	slog.Info("watcher stopped",
		"ticks", w.stats.Ticks,
		"converted", w.stats.Converted,
		"failed", w.stats.Failed,
	)
	return nil
}

func (w *Watcher) reportConvertError(err error) {
	switch convert.KindOf(err) {
	case convert.KindNotFound:
		slog.Error("converter not found; install pandoc and make sure it is on PATH", "err", err)
	case convert.KindCanceled:
		slog.Debug("conversion cancelled", "err", err)
	default:
		var ce *convert.Error
		if errors.As(err, &ce) && ce.Stderr != "" {
			slog.Error("conversion failed", "kind", ce.Kind, "exit", ce.ExitCode, "stderr", preview(ce.Stderr, outputPreview))
			return
		}
		slog.Error("conversion failed", "err", err)
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
