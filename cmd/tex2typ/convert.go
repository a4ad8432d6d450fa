package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/tex2typ/internal/clip"
	"go.klb.dev/tex2typ/internal/detect"
	"go.klb.dev/tex2typ/internal/watcher"
)

func newConvertCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert once: stdin to stdout, or the clipboard in place",
		Long: `Reads LaTeX from stdin, converts it and writes Typst to stdout.

With --in-place the current clipboard text is converted in place instead,
whether or not it looks like LaTeX:

  echo '$\frac{a}{b}$' | tex2typ convert
  tex2typ convert --in-place`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(cmd *cobra.Command, _ []string) error { return runConvert(cmd, v) },
	}

	cmd.Flags().Bool("in-place", false, "convert the clipboard in place instead of stdin")
	addConverterFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runConvert(cmd *cobra.Command, v *viper.Viper) error {
	setupLogging(v)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv := newConverter(v)
	target := v.GetString("to")

	if v.GetBool("in-place") {
		backend := clip.New()
		defer backend.Close()

		w := watcher.New(backend, conv, watcher.Config{Target: target, Detect: detect.Any})
		switch out := w.Tick(ctx); out {
		case watcher.Converted, watcher.Empty:
			return nil
		default:
			return fmt.Errorf("clipboard not converted: %s", out)
		}
	}

	in, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(in) == 0 {
		return nil
	}

	out, err := conv.Convert(ctx, string(in), target)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
