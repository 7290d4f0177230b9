// Package pipeline implements a 5-stage in-order pipeline datapath:
//
//   - Fetch (IF): read the next instruction.
//   - Decode (ID): read source registers, detect load-use stalls.
//   - Execute (EX): ALU, address computation, branch resolution.
//   - Memory (MEM): data memory access for LOAD/STORE.
//   - Writeback (WB): commit results to the register file.
//
// Each Step evaluates the stages in reverse (WB, MEM, EX, ID, IF).
// Running latest-first guarantees every stage reads the latch state
// committed by the previous cycle before any stage this cycle
// overwrites it, which is what makes a single-threaded, non-pipelined
// implementation of a pipelined datapath correct.
package pipeline

import (
	"github.com/go-logr/logr"

	"github.com/greywind-labs/pipesim/cpu"
	"github.com/greywind-labs/pipesim/isa"
)

// Pipeline is a 5-stage in-order pipeline sharing a register file and
// data memory with its caller.
type Pipeline struct {
	ifid  IFIDLatch
	idex  IDEXLatch
	exmem EXMEMLatch
	memwb MEMWBLatch

	nextIfid  IFIDLatch
	nextIdex  IDEXLatch
	nextExmem EXMEMLatch
	nextMemwb MEMWBLatch

	hazardUnit *HazardUnit

	regs    *cpu.RegFile
	memory  *cpu.DataMemory
	program []isa.Instruction
	pc      int

	cycles             uint64
	instructionsDone   uint64
	stallsInserted     uint64
	branchesTaken      uint64

	history []CycleSnapshot
	logger  logr.Logger
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithLogger attaches a logger used for advisory tracing of stalls and
// flushes. The zero value (logr.Discard()) is used when no logger is
// supplied.
func WithLogger(logger logr.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMemory supplies a pre-sized data memory instead of the default.
func WithMemory(memory *cpu.DataMemory) Option {
	return func(p *Pipeline) {
		p.memory = memory
	}
}

// WithHistory enables per-cycle snapshot recording, consumed via
// History. Recording every cycle's latch contents is useful for
// debugging and demos but unnecessary overhead for large runs, so it
// defaults to off.
func WithHistory() Option {
	return func(p *Pipeline) {
		p.history = make([]CycleSnapshot, 0)
	}
}

// NewPipeline creates a pipeline with its own register file and, unless
// overridden by WithMemory, a default-sized data memory.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		hazardUnit: NewHazardUnit(),
		regs:       &cpu.RegFile{},
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.memory == nil {
		p.memory = cpu.NewDataMemory()
	}
	return p
}

// Registers returns the pipeline's register file for inspection or
// pre-seeding before a run.
func (p *Pipeline) Registers() *cpu.RegFile {
	return p.regs
}

// Memory returns the pipeline's data memory for inspection or
// pre-seeding before a run.
func (p *Pipeline) Memory() *cpu.DataMemory {
	return p.memory
}

// PC returns the current program counter (an instruction index).
func (p *Pipeline) PC() int {
	return p.pc
}

// LoadProgram installs the instruction sequence, resets the program
// counter, and clears all latches, preparing the pipeline for a fresh
// run.
func (p *Pipeline) LoadProgram(program []isa.Instruction) {
	p.program = program
	p.pc = 0
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.nextIfid.Clear()
	p.nextIdex.Clear()
	p.nextExmem.Clear()
	p.nextMemwb.Clear()
}

// Drained reports whether every latch is a bubble and the program
// counter has run past the end of the program, the termination
// condition for Run.
func (p *Pipeline) Drained() bool {
	return !p.ifid.Valid && !p.idex.Valid && !p.exmem.Valid && !p.memwb.Valid && p.pc >= len(p.program)
}

// Step advances the pipeline by exactly one cycle.
func (p *Pipeline) Step() {
	p.cycles++

	p.doWriteback()
	p.doMemory()
	branchTaken, branchTarget := p.doExecute()
	stalled := p.doDecode(branchTaken)
	p.doFetch(stalled)

	if branchTaken {
		p.branchesTaken++
		p.logger.V(1).Info("branch taken, flushing fetch/decode", "target", branchTarget, "cycle", p.cycles)
	}
	if stalled {
		p.stallsInserted++
		p.logger.V(1).Info("load-use stall, bubble inserted", "cycle", p.cycles)
	}

	p.ifid = p.nextIfid
	p.idex = p.nextIdex
	p.exmem = p.nextExmem
	p.memwb = p.nextMemwb

	if p.history != nil {
		p.history = append(p.history, p.snapshot())
	}
}

// Run steps the pipeline until it drains or maxCycles is reached
// (maxCycles <= 0 means unbounded). It returns the number of cycles
// actually executed.
func (p *Pipeline) Run(maxCycles int) int {
	executed := 0
	for !p.Drained() {
		if maxCycles > 0 && executed >= maxCycles {
			break
		}
		p.Step()
		executed++
	}
	return executed
}

// doFetch implements the IF stage.
func (p *Pipeline) doFetch(stalled bool) {
	if stalled {
		p.nextIfid = p.ifid
		return
	}
	if p.pc >= 0 && p.pc < len(p.program) {
		p.nextIfid = IFIDLatch{Valid: true, Instruction: p.program[p.pc], PC: p.pc}
		p.pc++
		return
	}
	p.nextIfid.Clear()
}

// doDecode implements the ID stage. It returns true when a load-use
// hazard forces a stall.
func (p *Pipeline) doDecode(flushed bool) bool {
	if flushed {
		p.nextIdex.Clear()
		return false
	}
	if !p.ifid.Valid {
		p.nextIdex.Clear()
		return false
	}

	if p.hazardUnit.DetectStall(p.ifid, p.idex) {
		p.nextIdex.Clear()
		return true
	}

	instr := p.ifid.Instruction
	var rs1Value, rs2Value int64
	if instr.HasRS1() {
		rs1Value = p.regs.Read(instr.RS1)
	}
	if instr.HasRS2() {
		rs2Value = p.regs.Read(instr.RS2)
	}

	p.nextIdex = IDEXLatch{
		Valid:       true,
		Instruction: instr,
		RS1Value:    rs1Value,
		RS2Value:    rs2Value,
		Immediate:   instr.Imm,
	}
	return false
}

// doExecute implements the EX stage. It returns whether a control
// transfer was taken this cycle and, if so, its target.
func (p *Pipeline) doExecute() (branchTaken bool, branchTarget int) {
	if !p.idex.Valid {
		p.nextExmem.Clear()
		return false, 0
	}

	instr := p.idex.Instruction
	decision := p.hazardUnit.DetectForwarding(p.idex, p.exmem, p.memwb)
	rs1Value, rs2Value := p.hazardUnit.ApplyForwarding(p.idex, p.exmem, p.memwb, decision)

	var aluResult int64
	switch instr.Kind {
	case isa.OpAdd:
		aluResult = rs1Value + rs2Value
	case isa.OpSub:
		aluResult = rs1Value - rs2Value
	case isa.OpMul:
		aluResult = rs1Value * rs2Value
	case isa.OpLoad, isa.OpStore:
		aluResult = int64(instr.Imm)
	case isa.OpBeq:
		if rs1Value == rs2Value {
			aluResult = 1
			branchTaken = true
			branchTarget = int(instr.Target)
		}
	case isa.OpJump:
		branchTaken = true
		branchTarget = int(instr.Target)
	}

	p.nextExmem = EXMEMLatch{
		Valid:       true,
		Instruction: instr,
		ALUResult:   aluResult,
		RS2Value:    rs2Value,
	}

	if branchTaken {
		p.pc = branchTarget
	}

	return branchTaken, branchTarget
}

// doMemory implements the MEM stage. A STORE reads its source value
// directly from the live register file rather than the latched
// rs2_value: because Step runs Writeback before Memory, any producer
// immediately ahead of this STORE has already committed its result to
// the register file earlier in this same cycle, so the direct read is
// both simpler and correct. The latched rs2_value remains as a
// fallback for the case where the instruction carries no explicit
// source register.
func (p *Pipeline) doMemory() {
	if !p.exmem.Valid {
		p.nextMemwb.Clear()
		return
	}

	instr := p.exmem.Instruction
	var result int64

	switch instr.Kind {
	case isa.OpLoad:
		if value, ok := p.memory.Read(int32(p.exmem.ALUResult)); ok {
			result = value
		} else {
			result = p.exmem.ALUResult
		}
	case isa.OpStore:
		addr := int32(p.exmem.ALUResult)
		if instr.HasRS() {
			p.memory.Write(addr, p.regs.Read(instr.RS))
		} else {
			p.memory.Write(addr, p.exmem.RS2Value)
		}
		result = p.exmem.ALUResult
	default:
		result = p.exmem.ALUResult
	}

	p.nextMemwb = MEMWBLatch{Valid: true, Instruction: instr, Result: result}
}

// doWriteback implements the WB stage.
func (p *Pipeline) doWriteback() {
	if !p.memwb.Valid {
		return
	}
	instr := p.memwb.Instruction
	if instr.HasRD() && instr.RD != 0 {
		p.regs.Write(instr.RD, p.memwb.Result)
	}
	p.instructionsDone++
}
