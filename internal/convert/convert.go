// Package convert runs the external document converter that turns clipboard
// text into Typst.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Default formats passed to the converter.
const (
	FormatLaTeX = "latex"
	FormatTypst = "typst"
)

// ErrNotFound reports that the converter binary could not be located.
var ErrNotFound = errors.New("converter not found")

// ErrEmptyInput is returned when asked to convert an empty string.
var ErrEmptyInput = errors.New("empty input")

// Converter translates text into the target format.
type Converter interface {
	Convert(ctx context.Context, text, target string) (string, error)
}

// Func adapts an ordinary function to Converter.
type Func func(ctx context.Context, text, target string) (string, error)

// Convert calls f.
func (f Func) Convert(ctx context.Context, text, target string) (string, error) {
	return f(ctx, text, target)
}

// Kind classifies a conversion failure.
type Kind string

const (
	KindNotFound Kind = "not_found" // binary missing from PATH
	KindExit     Kind = "exit"      // ran, exited non-zero
	KindStart    Kind = "start"     // could not be started for another reason
	KindCanceled Kind = "canceled"  // killed because the context ended
	KindEmpty    Kind = "empty"     // nothing to convert
)

// Error describes a failed conversion.
type Error struct {
	Kind     Kind
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "convert (%s): %s", e.Command, e.Kind)
	if e.Kind == KindExit {
		fmt.Fprintf(&b, " status %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
