package pipeline

import "github.com/greywind-labs/pipesim/isa"

// IFIDLatch is the pipeline register between Fetch and Decode.
type IFIDLatch struct {
	Valid       bool
	Instruction isa.Instruction
	PC          int
}

// Clear marks the latch as a bubble.
func (l *IFIDLatch) Clear() {
	*l = IFIDLatch{}
}

// IDEXLatch is the pipeline register between Decode and Execute.
type IDEXLatch struct {
	Valid       bool
	Instruction isa.Instruction
	RS1Value    int64
	RS2Value    int64
	Immediate   int32
}

// Clear marks the latch as a bubble.
func (l *IDEXLatch) Clear() {
	*l = IDEXLatch{}
}

// EXMEMLatch is the pipeline register between Execute and Memory.
type EXMEMLatch struct {
	Valid       bool
	Instruction isa.Instruction
	ALUResult   int64
	RS2Value    int64
}

// Clear marks the latch as a bubble.
func (l *EXMEMLatch) Clear() {
	*l = EXMEMLatch{}
}

// MEMWBLatch is the pipeline register between Memory and Writeback.
type MEMWBLatch struct {
	Valid       bool
	Instruction isa.Instruction
	Result      int64
}

// Clear marks the latch as a bubble.
func (l *MEMWBLatch) Clear() {
	*l = MEMWBLatch{}
}
