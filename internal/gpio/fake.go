package gpio

import "sync"

// FakeWatcher is a test double that delivers scripted edges and levels.
type FakeWatcher struct {
	mu sync.Mutex

	onEdge EdgeFunc

	// Levels is returned by Read.
	Levels [NumButtons]bool

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by Read().
	ReadError error
}

// NewFakeWatcher creates a FakeWatcher that forwards edges to onEdge.
func NewFakeWatcher(onEdge EdgeFunc) *FakeWatcher {
	return &FakeWatcher{onEdge: onEdge}
}

// Press simulates a falling edge on channel, as the hardware event goroutine would.
// Edges are dropped after Close.
func (f *FakeWatcher) Press(channel int) {
	f.mu.Lock()
	closed := f.Closed
	f.mu.Unlock()
	if closed || f.onEdge == nil {
		return
	}
	f.onEdge(channel)
}

// Read returns the scripted levels.
func (f *FakeWatcher) Read() ([NumButtons]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return [NumButtons]bool{}, f.ReadError
	}
	return f.Levels, nil
}

// Close marks the watcher as closed.
func (f *FakeWatcher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
