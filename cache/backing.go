package cache

import "math/rand"

// BackingStore is the main memory a Cache sits in front of.
type BackingStore interface {
	// Read returns the word at addr and whether addr was in range.
	Read(addr int) (int64, bool)
	// Write stores value at addr and reports whether addr was in
	// range; a Cache ignores the result, matching the simulator's
	// silent-skip policy for out-of-range accesses.
	Write(addr int, value int64) bool
}

// RandomMemory is a flat, word-addressed BackingStore whose contents
// are pseudo-randomly initialized at construction, matching the
// cache's contract that main memory starts out filled with
// unpredictable (but seedable, for reproducible tests) bytes rather
// than zeros.
type RandomMemory struct {
	words []int64
}

// NewRandomMemory allocates a RandomMemory of the given word capacity,
// filled using the given seed so tests can reproduce its contents.
func NewRandomMemory(words int, seed int64) *RandomMemory {
	rng := rand.New(rand.NewSource(seed))
	m := &RandomMemory{words: make([]int64, words)}
	for i := range m.words {
		m.words[i] = int64(rng.Intn(256))
	}
	return m
}

// Read returns the word at addr and whether addr was in range.
func (m *RandomMemory) Read(addr int) (int64, bool) {
	if addr < 0 || addr >= len(m.words) {
		return 0, false
	}
	return m.words[addr], true
}

// Write stores value at addr and reports whether addr was in range.
func (m *RandomMemory) Write(addr int, value int64) bool {
	if addr < 0 || addr >= len(m.words) {
		return false
	}
	m.words[addr] = value
	return true
}

// Len returns the memory's capacity in words.
func (m *RandomMemory) Len() int {
	return len(m.words)
}
