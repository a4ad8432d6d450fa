package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/tex2typ/internal/clip"
	"go.klb.dev/tex2typ/internal/convert"
	"go.klb.dev/tex2typ/internal/watcher"
)

const fakePandocEnv = "TEX2TYP_TEST_FAKE_PANDOC"

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakePandocEnv); mode != "" {
		in, _ := io.ReadAll(os.Stdin)
		if mode == "fail" {
			fmt.Fprintln(os.Stderr, "pandoc: parse error")
			os.Exit(1)
		}
		fmt.Printf("%s|%s", strings.Join(os.Args[1:], " "), in)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// isolate keeps tests away from any real config file.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConvertCmd_Stdin(t *testing.T) {
	isolate(t)
	t.Setenv(fakePandocEnv, "echo")

	out, err := execute(t, `$x^2$`,
		"convert", "--pandoc", os.Args[0], "--pandoc-arg=--wrap=none", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "-f latex -t typst --wrap=none|$x^2$", out)
}

func TestConvertCmd_TargetFlag(t *testing.T) {
	isolate(t)
	t.Setenv(fakePandocEnv, "echo")

	out, err := execute(t, `\alpha`, "convert", "--pandoc", os.Args[0], "--to", "markdown", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, `-f latex -t markdown|\alpha`, out)
}

func TestConvertCmd_Failure(t *testing.T) {
	isolate(t)
	t.Setenv(fakePandocEnv, "fail")

	out, err := execute(t, `\frac{`, "convert", "--pandoc", os.Args[0], "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, convert.KindExit, convert.KindOf(err))
	assert.Empty(t, out)
}

func TestConvertCmd_EmptyStdin(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "convert", "--pandoc", "tex2typ-no-such-pandoc", "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConvertCmd_MissingConverter(t *testing.T) {
	isolate(t)

	_, err := execute(t, `$x$`, "convert", "--pandoc", "tex2typ-no-such-pandoc", "--log-level", "error")
	assert.ErrorIs(t, err, convert.ErrNotFound)
}

func TestResolveLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	resolveLogging(true, "json", "")
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))

	resolveLogging(false, "json", "")
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))

	resolveLogging(true, "json", "error")
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelError))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tex2typ dev")
	assert.Contains(t, out, "converter:")
}

func TestWatchCmd_RejectsArgs(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "bogus")
	assert.Error(t, err)
}

// bound returns a watch command with flags parsed from args and bound to v.
func bound(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	v := viper.New()
	cmd := newWatchCmd()
	require.NoError(t, cmd.Flags().Parse(args))
	require.NoError(t, bindViper(cmd, v))
	return v
}

func TestLoadSettings_Defaults(t *testing.T) {
	isolate(t)
	s, err := loadSettings(bound(t))
	require.NoError(t, err)

	assert.Equal(t, clip.KindAuto, s.Clipboard)
	assert.False(t, s.All)
	assert.Equal(t, watcher.DefaultInterval, s.Watcher.Interval)
	assert.Equal(t, convert.FormatTypst, s.Watcher.Target)
	assert.Equal(t, watcher.DefaultMaxReadFailures, s.Watcher.MaxReadFailures)
	assert.False(t, s.Watcher.IgnoreExisting)
}

func TestLoadSettings_Precedence(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "tex2typ.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
interval = "2s"
all = true
to = "markdown"
clipboard = "memory"
ignore-existing = true
`), 0o600))
	t.Setenv("TEX2TYP_MAX_READ_FAILURES", "7")

	v := bound(t, "--config", cfg, "--to", "typst")
	s, err := loadSettings(v)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, s.Watcher.Interval, "config file")
	assert.True(t, s.All, "config file")
	assert.True(t, s.Watcher.IgnoreExisting, "config file")
	assert.Equal(t, clip.KindMemory, s.Clipboard, "config file")
	assert.Equal(t, 7, s.Watcher.MaxReadFailures, "env var")
	assert.Equal(t, "typst", s.Watcher.Target, "flag beats config file")
}

func TestLoadSettings_Invalid(t *testing.T) {
	isolate(t)

	_, err := loadSettings(bound(t, "--clipboard", "pasteboard"))
	assert.Error(t, err)

	_, err = loadSettings(bound(t, "--interval", "0s"))
	assert.Error(t, err)
}

func TestBindViper_BadConfigFile(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "tex2typ.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("interval = \n"), 0o600))

	v := viper.New()
	cmd := newWatchCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--config", cfg}))
	assert.Error(t, bindViper(cmd, v))
}

func TestNewConverter(t *testing.T) {
	isolate(t)
	v := bound(t, "--pandoc", "/opt/pandoc/bin/pandoc", "--from", "tex", "--pandoc-arg=--mathjax")
	p := newConverter(v)
	assert.Equal(t, "/opt/pandoc/bin/pandoc", p.Binary)
	assert.Equal(t, "tex", p.From)
	assert.Equal(t, []string{"--mathjax"}, p.Args)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, settings{Watcher: watcher.Config{Interval: 500 * time.Millisecond}})
	assert.Contains(t, buf.String(), "tex2typ is running")
	assert.Contains(t, buf.String(), "500ms")
	assert.Contains(t, buf.String(), "recognised as LaTeX")

	buf.Reset()
	printBanner(&buf, settings{All: true, Watcher: watcher.Config{Interval: time.Second}})
	assert.Contains(t, buf.String(), "Every new text")
}
