package convert

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the converter looked up on PATH when none is configured.
const DefaultBinary = "pandoc"

// Pandoc converts text by piping it through a pandoc process:
//
//	pandoc -f <From> -t <target> [Args...]
//
// Stdout is the result; stderr is only kept for error reports.
type Pandoc struct {
	Binary string   // default "pandoc"
	From   string   // default "latex"
	Args   []string // appended after the format flags
	Env    []string // added to the inherited environment
}

// NewPandoc returns a Pandoc converter reading LaTeX.
func NewPandoc(binary string, args ...string) *Pandoc {
	return &Pandoc{Binary: binary, From: FormatLaTeX, Args: args}
}

func (p *Pandoc) binary() string {
	if p.Binary == "" {
		return DefaultBinary
	}
	return p.Binary
}

func (p *Pandoc) from() string {
	if p.From == "" {
		return FormatLaTeX
	}
	return p.From
}

// Check resolves the binary and returns its path.
func (p *Pandoc) Check() (string, error) {
	path, err := exec.LookPath(p.binary())
	if err != nil {
		return "", &Error{Kind: KindNotFound, Command: p.binary(), Err: errors.Join(ErrNotFound, err)}
	}
	return path, nil
}

// Convert runs the converter with text on stdin and returns its stdout.
func (p *Pandoc) Convert(ctx context.Context, text, target string) (string, error) {
	if text == "" {
		return "", &Error{Kind: KindEmpty, Command: p.binary(), Err: ErrEmptyInput}
	}
	if target == "" {
		target = FormatTypst
	}

	args := append([]string{"-f", p.from(), "-t", target}, p.Args...)
	cmd := exec.CommandContext(ctx, p.binary(), args...)
	cmd.Stdin = strings.NewReader(text)
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", p.classify(ctx, err, stderr.String())
	}
	if w := strings.TrimSpace(stderr.String()); w != "" {
		slog.Debug("converter warnings", "command", p.binary(), "stderr", w)
	}
	return stdout.String(), nil
}

func (p *Pandoc) classify(ctx context.Context, err error, stderr string) error {
	ce := &Error{Command: p.binary(), Stderr: stderr, Err: err}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		ce.Kind = KindCanceled
		ce.Err = ctx.Err()
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		ce.Kind = KindNotFound
		ce.Err = errors.Join(ErrNotFound, err)
	case errors.As(err, &exitErr):
		ce.Kind = KindExit
		ce.ExitCode = exitErr.ExitCode()
	default:
		ce.Kind = KindStart
	}
	return ce
}
