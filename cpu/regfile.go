// Package cpu provides the architectural state the pipeline operates
// on: the general-purpose register file and the word-addressed data
// memory that backs LOAD and STORE.
package cpu

// NumRegisters is the number of general-purpose registers. Register 0
// is hardwired to zero, matching the ISA's register-0-is-zero
// convention.
const NumRegisters = 32

// RegFile is the architectural general-purpose register file.
// Register 0 always reads as zero and silently discards writes.
type RegFile struct {
	r [NumRegisters]int64
}

// Read returns the value of register reg. Register 0 always reads 0;
// an out-of-range register also reads 0.
func (f *RegFile) Read(reg uint8) int64 {
	if reg == 0 || int(reg) >= NumRegisters {
		return 0
	}
	return f.r[reg]
}

// Write stores value into register reg. Writes to register 0 and to
// out-of-range registers are silently discarded.
func (f *RegFile) Write(reg uint8, value int64) {
	if reg == 0 || int(reg) >= NumRegisters {
		return
	}
	f.r[reg] = value
}

// Snapshot returns a copy of all register values, including register
// 0 (always zero). Intended for diagnostics and test assertions.
func (f *RegFile) Snapshot() [NumRegisters]int64 {
	return f.r
}
