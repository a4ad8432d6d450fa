package clip

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// commandBackend shells out to the platform clipboard utility.
type commandBackend struct{}

func newCommand() (Backend, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w: no xclip, xsel or wl-clipboard found", ErrUnavailable)
	}
	return commandBackend{}, nil
}

func (commandBackend) Name() string { return "command" }

func (commandBackend) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard read: %w", err)
	}
	return text, nil
}

func (commandBackend) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

func (commandBackend) Close() {}
