// tex2typ: converts LaTeX on the clipboard to Typst.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/tex2typ/internal/convert"
	"go.klb.dev/tex2typ/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := newWatchCmd()
	root.AddCommand(
		newConvertCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tex2typ %s\n", Version)
			if path, err := convert.NewPandoc(convert.DefaultBinary).Check(); err == nil {
				fmt.Fprintf(out, "converter: %s\n", path)
			} else {
				fmt.Fprintf(out, "converter: %s not found on PATH\n", convert.DefaultBinary)
			}
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
// Without an explicit level, interactive sessions log at debug.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
