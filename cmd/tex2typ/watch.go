package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/tex2typ/internal/clip"
	"go.klb.dev/tex2typ/internal/detect"
	"go.klb.dev/tex2typ/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tex2typ",
		Short: "Convert LaTeX on the clipboard to Typst",
		Long: `tex2typ watches the system clipboard. Whenever new text that looks like
LaTeX appears (\frac, \begin{...}, $$, x^2, ...), it is piped through
"pandoc -f latex -t typst" and the clipboard is replaced with the result.
Text the converter rejects is left untouched. Stop with Ctrl+C.

Config file search order:
  /etc/tex2typ/tex2typ.toml
  $HOME/.config/tex2typ/tex2typ.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → TEX2TYP_* env vars → flags`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(cmd *cobra.Command, _ []string) error { return runWatch(cmd, v) },
	}

	f := cmd.Flags()
	f.Duration("interval", watcher.DefaultInterval, "delay between clipboard polls")
	f.Bool("all", false, "convert every new clipboard text, not only LaTeX-looking text")
	f.Bool("ignore-existing", false, "leave whatever is on the clipboard at startup alone")
	f.Int("max-read-failures", watcher.DefaultMaxReadFailures, "exit after this many consecutive clipboard read errors (negative = never; the native backend never reports read errors)")
	f.String("clipboard", string(clip.KindAuto), "clipboard backend: auto|native|command|memory")
	addConverterFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper) error {
	interactive := setupLogging(v)

	s, err := loadSettings(v)
	if err != nil {
		return err
	}

	backend, err := clip.Open(s.Clipboard)
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	defer backend.Close()

	conv := newConverter(v)
	if path, err := conv.Check(); err != nil {
		slog.Warn("converter not found, conversions will fail until it is installed", "err", err)
	} else {
		slog.Debug("converter", "path", path)
	}

	if s.All {
		s.Watcher.Detect = detect.Any
	}

	slog.Info("tex2typ starting",
		"version", Version,
		"clipboard", backend.Name(),
		"converter", conv.Binary,
		"detect", !s.All,
	)
	if interactive {
		printBanner(cmd.ErrOrStderr(), s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watcher.New(backend, conv, s.Watcher).Run(ctx)
}

func printBanner(w io.Writer, s settings) {
	title := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)

	_, _ = title.Fprintln(w, "tex2typ is running")
	fmt.Fprintf(w, "Monitoring the clipboard every %s.\n", s.Watcher.Interval)
	if s.All {
		fmt.Fprintln(w, "Every new text will be converted.")
	} else {
		fmt.Fprintln(w, "Only text recognised as LaTeX will be converted.")
	}
	_, _ = dim.Fprintln(w, "Press Ctrl+C to stop.")
}
