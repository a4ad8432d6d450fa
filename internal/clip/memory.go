package clip

import "sync"

// Memory is an in-process clipboard. Read and write errors can be injected
// to simulate OS-level faults.
type Memory struct {
	mu       sync.Mutex
	text     string
	readErr  error
	writeErr error
	reads    int
	writes   int
}

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// Name returns "memory".
func (m *Memory) Name() string { return "memory" }

// ReadText returns the held text, or the injected read error.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.text, nil
}

// WriteText stores text unless a write error is injected.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.text = text
	return nil
}

// Close is a no-op.
func (m *Memory) Close() {}

// Set replaces the clipboard text as another application would.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
}

// Text returns the current contents without counting as a read.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// FailReads makes subsequent reads return err; nil clears it.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// FailWrites makes subsequent writes return err; nil clears it.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// Reads reports how many ReadText calls were made.
func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes reports how many successful WriteText calls were made.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
