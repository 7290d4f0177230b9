// Package cache implements a parameterized set-associative cache with
// write-through, write-allocate semantics and true LRU replacement,
// built on Akita's cache directory for tag/valid/LRU bookkeeping. A
// direct-mapped cache is simply the one-way special case; New accepts
// any way count, and NewDirectMapped/NewTwoWaySetAssociative are named
// convenience constructors for the two shapes the rest of the system
// actually drives.
package cache

import (
	"encoding/binary"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// wordBytes is the size in bytes of one word slot in a cache line.
// The directory and its victim finder operate on byte addresses, so
// every word address this package's callers use is scaled by
// wordBytes before it reaches the directory.
const wordBytes = 8

// Config describes a cache's geometry. BlockSize and Ways*Sets must
// each be powers of two; the cache assumes this holds and does not
// validate it, matching the simulator's documented stance that
// malformed construction parameters are a programming error by the
// caller.
type Config struct {
	// BlockSize is the number of words per cache line.
	BlockSize int
	// Sets is the number of sets (num_lines for a direct-mapped cache,
	// where Ways is 1).
	Sets int
	// Ways is the associativity: 1 for direct-mapped, 2 for the 2-way
	// set-associative variant.
	Ways int
	// MemorySize is the word capacity of the backing main memory.
	MemorySize int
}

// Statistics holds a cache's access counters.
type Statistics struct {
	Accesses uint64
	Hits     uint64
	Misses   uint64
}

// HitRate returns Hits/Accesses, or 0 if there have been no accesses.
func (s Statistics) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// MissRate returns 1 - HitRate.
func (s Statistics) MissRate() float64 {
	return 1 - s.HitRate()
}

// Cache is a set-associative, write-through, write-allocate cache
// sitting in front of a word-addressed BackingStore. Tag/valid/LRU
// bookkeeping is delegated to an Akita cache directory; dataStore
// holds the actual words, one akita Block per entry, each block
// BlockSize*wordBytes bytes long with one int64 word per 8-byte slot.
type Cache struct {
	config Config

	directory *akitacache.DirectoryImpl
	dataStore [][]byte

	stats   Statistics
	backing BackingStore
}

// New constructs a cache with the given configuration and backing
// store.
func New(config Config, backing BackingStore) *Cache {
	totalBlocks := config.Sets * config.Ways
	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize*wordBytes)
	}
	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Ways,
			config.BlockSize*wordBytes,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// NewDirectMapped constructs a direct-mapped cache (the one-way
// special case of the set-associative design).
func NewDirectMapped(blockSize, numLines, memorySize int, backing BackingStore) *Cache {
	return New(Config{BlockSize: blockSize, Sets: numLines, Ways: 1, MemorySize: memorySize}, backing)
}

// NewTwoWaySetAssociative constructs a 2-way set-associative cache
// with true LRU replacement.
func NewTwoWaySetAssociative(blockSize, numSets, memorySize int, backing BackingStore) *Cache {
	return New(Config{BlockSize: blockSize, Sets: numSets, Ways: 2, MemorySize: memorySize}, backing)
}

// Config returns the cache's geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the cache's access counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats zeroes the access counters without disturbing cache
// contents, matching the directory's own state staying untouched.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockBytes is the byte length of one cache line.
func (c *Cache) blockBytes() uint64 {
	return uint64(c.config.BlockSize) * wordBytes
}

// blockIndex computes dataStore's index for a directory block.
func (c *Cache) blockIndex(b *akitacache.Block) int {
	return b.SetID*c.config.Ways + b.WayID
}

// fill loads a block's words from the backing store starting at its
// base address, skipping any words past the end of memory, and marks
// it valid. Because this cache is write-through only, a filled block
// is never dirty — there is nothing to write back on eviction.
func (c *Cache) fill(blockAddr uint64) *akitacache.Block {
	victim := c.directory.FindVictim(blockAddr)
	data := c.dataStore[c.blockIndex(victim)]

	wordBase := int(blockAddr / wordBytes)
	for i := 0; i < c.config.BlockSize; i++ {
		if value, ok := c.backing.Read(wordBase + i); ok {
			binary.LittleEndian.PutUint64(data[i*wordBytes:(i+1)*wordBytes], uint64(value))
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	return victim
}

// Read returns the word at addr, filling the line on a miss.
func (c *Cache) Read(addr int) int64 {
	c.stats.Accesses++

	byteAddr := uint64(addr) * wordBytes
	blockBytes := c.blockBytes()
	blockAddr := (byteAddr / blockBytes) * blockBytes
	offset := byteAddr % blockBytes

	block := c.directory.Lookup(0, blockAddr)
	if block == nil || !block.IsValid {
		c.stats.Misses++
		block = c.fill(blockAddr)
	} else {
		c.stats.Hits++
	}
	c.directory.Visit(block)

	data := c.dataStore[c.blockIndex(block)]
	return int64(binary.LittleEndian.Uint64(data[offset : offset+wordBytes]))
}

// Write stores value at addr, write-through and write-allocate: the
// backing memory is always updated, and a miss fills the line before
// the write lands in it.
func (c *Cache) Write(addr int, value int64) {
	c.stats.Accesses++

	byteAddr := uint64(addr) * wordBytes
	blockBytes := c.blockBytes()
	blockAddr := (byteAddr / blockBytes) * blockBytes
	offset := byteAddr % blockBytes

	block := c.directory.Lookup(0, blockAddr)
	if block == nil || !block.IsValid {
		c.stats.Misses++
		block = c.fill(blockAddr)
	} else {
		c.stats.Hits++
	}
	c.directory.Visit(block)

	data := c.dataStore[c.blockIndex(block)]
	binary.LittleEndian.PutUint64(data[offset:offset+wordBytes], uint64(value))
	c.backing.Write(addr, value)
}
