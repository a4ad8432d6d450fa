// Package clip provides text access to the system clipboard.
//
// Three real backends are available and New picks the first that works:
//
//	native   — golang.design/x/clipboard (X11 / macOS / Windows APIs)
//	command  — github.com/atotto/clipboard (xclip, xsel, wl-clipboard, pbcopy, clip.exe)
//	headless — no display, every read fails with ErrUnavailable
//
// Memory is an in-process backend for tests and dry runs.
//
// The native backend cannot report read failures: golang.design/x/clipboard
// returns no error from Read, so an unreadable clipboard looks empty. Only
// the command and headless backends surface ReadText errors.
package clip

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnavailable is returned by backends that cannot reach a clipboard.
var ErrUnavailable = errors.New("clipboard unavailable")

// Backend is the interface all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. An empty clipboard, or
	// one holding only non-text data, yields "", nil.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Close releases any resources held by the backend.
	Close()
}

// Kind names a backend selection for Open.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindNative  Kind = "native"
	KindCommand Kind = "command"
	KindMemory  Kind = "memory"
)

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindAuto:
		return KindAuto, nil
	case KindNative, KindCommand, KindMemory:
		return k, nil
	default:
		return "", fmt.Errorf("unknown clipboard backend %q (want auto|native|command|memory)", s)
	}
}

// New returns the best available backend, falling back to headless when no
// clipboard can be reached so the caller can still start and report errors.
func New() Backend {
	b, err := newNative()
	if err == nil {
		return b
	}
	slog.Debug("native clipboard unavailable", "err", err)

	b, err = newCommand()
	if err == nil {
		return b
	}
	slog.Debug("command clipboard unavailable", "err", err)

	slog.Warn("no clipboard backend available, running headless")
	return headlessBackend{}
}

// Open returns the backend of the requested kind.
func Open(kind Kind) (Backend, error) {
	switch kind {
	case KindAuto, "":
		return New(), nil
	case KindNative:
		return newNative()
	case KindCommand:
		return newCommand()
	case KindMemory:
		return NewMemory(""), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", kind)
	}
}

// headlessBackend stands in when no display or clipboard tool exists.
type headlessBackend struct{}

func (headlessBackend) Name() string              { return "headless (no-op)" }
func (headlessBackend) ReadText() (string, error) { return "", ErrUnavailable }
func (headlessBackend) WriteText(_ string) error  { return ErrUnavailable }
func (headlessBackend) Close()                    {}
