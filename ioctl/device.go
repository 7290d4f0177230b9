// Package ioctl models I/O devices and the two ways a system can drain
// them: synchronous polling and asynchronous interrupt dispatch. It
// exists to contrast those two drain strategies over a shared Device
// abstraction; it has no dependency on the pipeline or cache packages.
package ioctl

import "sync"

// State is a device's readiness.
type State uint8

const (
	// StateReady means the device can accept a write and, if it has
	// buffered data, can satisfy a read.
	StateReady State = iota
	// StateBusy means the device is mid-operation and should not be
	// read from or written to.
	StateBusy
	// StateError means the device has faulted.
	StateError
)

// String renders a State for logging.
func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateBusy:
		return "BUSY"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Device is a named component with a readiness state and a bounded
// FIFO of integers.
type Device interface {
	Name() string
	// Read pops the head of the FIFO. ok is false if the FIFO is
	// empty.
	Read() (value int, ok bool)
	// Write pushes v if there is room. It reports whether the push
	// succeeded.
	Write(v int) bool
	// Ready reports whether the device's state is StateReady.
	Ready() bool
	// HasData reports whether the FIFO is non-empty.
	HasData() bool
}

// FIFO is a bounded, mutex-protected integer queue with a readiness
// state, the concrete Device every device in this package embeds. The
// buffer and state share a lock because background producers (a
// sensor's reading loop, an interrupt monitor) and foreground readers
// touch both together.
type FIFO struct {
	mu       sync.Mutex
	name     string
	state    State
	buf      []int
	capacity int
}

// NewFIFO creates a ready, empty FIFO with the given name and
// capacity.
func NewFIFO(name string, capacity int) *FIFO {
	return &FIFO{
		name:     name,
		state:    StateReady,
		capacity: capacity,
	}
}

// Name returns the device's name.
func (f *FIFO) Name() string {
	return f.name
}

// Read pops the head of the buffer.
func (f *FIFO) Read() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.buf) == 0 {
		return 0, false
	}
	v := f.buf[0]
	f.buf = f.buf[1:]
	return v, true
}

// Write pushes v if the buffer has room.
func (f *FIFO) Write(v int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.buf) >= f.capacity {
		return false
	}
	f.buf = append(f.buf, v)
	return true
}

// Ready reports whether the device's state is StateReady.
func (f *FIFO) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateReady
}

// HasData reports whether the buffer is non-empty.
func (f *FIFO) HasData() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buf) > 0
}

// State returns the device's current readiness.
func (f *FIFO) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetState updates the device's readiness. Exported so a driving
// sensor (or a test) can simulate the device faulting or recovering.
func (f *FIFO) SetState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}
