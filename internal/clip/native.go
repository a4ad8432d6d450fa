package clip

import (
	"fmt"

	"golang.design/x/clipboard"
)

type nativeBackend struct{}

// newNative initializes golang.design/x/clipboard. Init is called here rather
// than in init() so the one-shot convert command never touches the display
// on headless systems.
func newNative() (Backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nativeBackend{}, nil
}

func (nativeBackend) Name() string { return "native" }

// ReadText never fails; an unreadable clipboard reads as "".
func (nativeBackend) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (nativeBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (nativeBackend) Close() {}
