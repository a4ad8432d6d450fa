package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/tex2typ/internal/clip"
	"go.klb.dev/tex2typ/internal/convert"
	"go.klb.dev/tex2typ/internal/logging"
	"go.klb.dev/tex2typ/internal/watcher"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and TEX2TYP_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → TEX2TYP_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("tex2typ")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/tex2typ/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tex2typ"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("TEX2TYP")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// envKeyReplacer maps flag names to env var suffixes: max-read-failures →
// TEX2TYP_MAX_READ_FAILURES.
var envKeyReplacer = strings.NewReplacer("-", "_")

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: debug when interactive, info otherwise)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addConverterFlags adds the flags that shape the pandoc invocation.
func addConverterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("pandoc", convert.DefaultBinary, "converter binary (name on PATH or absolute path)")
	f.String("from", convert.FormatLaTeX, "input format passed to the converter")
	f.String("to", convert.FormatTypst, "output format passed to the converter")
	f.StringSlice("pandoc-arg", nil, "extra converter arguments, e.g. --pandoc-arg=--wrap=none")
}

// setupLogging reads logging flags from viper and configures slog.
// It reports whether the session is interactive.
func setupLogging(v *viper.Viper) bool {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
	return interactive
}

// newConverter builds the pandoc converter from viper settings.
func newConverter(v *viper.Viper) *convert.Pandoc {
	return &convert.Pandoc{
		Binary: v.GetString("pandoc"),
		From:   v.GetString("from"),
		Args:   v.GetStringSlice("pandoc-arg"),
	}
}

// settings is the resolved configuration of the watch loop.
type settings struct {
	Clipboard clip.Kind
	Watcher   watcher.Config
	All       bool
}

func loadSettings(v *viper.Viper) (settings, error) {
	kind, err := clip.ParseKind(v.GetString("clipboard"))
	if err != nil {
		return settings{}, err
	}
	interval := v.GetDuration("interval")
	if interval <= 0 {
		return settings{}, fmt.Errorf("interval must be positive, got %s", v.GetString("interval"))
	}
	s := settings{
		Clipboard: kind,
		All:       v.GetBool("all"),
		Watcher: watcher.Config{
			Interval:        interval,
			Target:          v.GetString("to"),
			MaxReadFailures: v.GetInt("max-read-failures"),
			IgnoreExisting:  v.GetBool("ignore-existing"),
		},
	}
	return s, nil
}
