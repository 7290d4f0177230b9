package pipeline

import "github.com/greywind-labs/pipesim/isa"

// ForwardSource identifies where a source operand's effective value
// should come from.
type ForwardSource uint8

const (
	// ForwardNone means use the latched register-file value unchanged.
	ForwardNone ForwardSource = iota
	// ForwardEXMEM means forward the EX/MEM latch's ALU result.
	ForwardEXMEM
	// ForwardMEMWB means forward the MEM/WB latch's result.
	ForwardMEMWB
)

// ForwardingDecision is the forwarding selection for both of an
// instruction's source operands.
type ForwardingDecision struct {
	RS1 ForwardSource
	RS2 ForwardSource
}

// HazardUnit detects RAW hazards and selects forwarding paths. Every
// method is a pure function of its arguments; the unit itself carries
// no state.
type HazardUnit struct{}

// NewHazardUnit creates a hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// isForwardableProducer reports whether a latch holding the given kind
// and destination register can be a forwarding source: it must write a
// register, and register 0 is never an observable write.
func isForwardableProducer(valid bool, kind isa.Kind, rd uint8) bool {
	if !valid || rd == 0 {
		return false
	}
	switch kind {
	case isa.OpAdd, isa.OpSub, isa.OpMul, isa.OpLoad:
		return true
	default:
		return false
	}
}

// DetectStall reports whether the instruction in IF/ID must stall for
// one cycle because the instruction ahead of it in ID/EX is a LOAD
// whose destination it consumes. This is the only stall condition in
// the pipeline; every other RAW hazard is resolved by forwarding.
func (h *HazardUnit) DetectStall(ifid IFIDLatch, idex IDEXLatch) bool {
	if !ifid.Valid {
		return false
	}
	instr := ifid.Instruction
	if !instr.HasRS1() && !instr.HasRS2() {
		return false
	}
	if !idex.Valid || idex.Instruction.Kind != isa.OpLoad {
		return false
	}
	rd := idex.Instruction.RD
	if rd == 0 {
		return false
	}
	if instr.HasRS1() && instr.RS1 == rd {
		return true
	}
	if instr.HasRS2() && instr.RS2 == rd {
		return true
	}
	return false
}

// DetectForwarding selects a forwarding source for each of ID/EX's
// source operands. EX/MEM is considered first and wins any collision
// with MEM/WB because it holds the fresher result.
func (h *HazardUnit) DetectForwarding(idex IDEXLatch, exmem EXMEMLatch, memwb MEMWBLatch) ForwardingDecision {
	var decision ForwardingDecision
	if !idex.Valid {
		return decision
	}
	instr := idex.Instruction

	exOK := isForwardableProducer(exmem.Valid, exmem.Instruction.Kind, exmem.Instruction.RD)
	wbOK := isForwardableProducer(memwb.Valid, memwb.Instruction.Kind, memwb.Instruction.RD)

	if instr.HasRS1() {
		switch {
		case exOK && exmem.Instruction.RD == instr.RS1:
			decision.RS1 = ForwardEXMEM
		case wbOK && memwb.Instruction.RD == instr.RS1:
			decision.RS1 = ForwardMEMWB
		}
	}

	if instr.HasRS2() {
		switch {
		case exOK && exmem.Instruction.RD == instr.RS2:
			decision.RS2 = ForwardEXMEM
		case wbOK && memwb.Instruction.RD == instr.RS2:
			decision.RS2 = ForwardMEMWB
		}
	}

	return decision
}

// ApplyForwarding resolves the effective rs1/rs2 values for ID/EX
// given a forwarding decision. Forwarding from EX/MEM is suppressed
// when its instruction is a LOAD, since a LOAD's real result is not
// produced until after MEM; the stall rule in DetectStall already
// guarantees no consumer reaches EX while depending on such a value,
// so this guard never actually fires, but it documents the invariant
// forwarding relies on.
func (h *HazardUnit) ApplyForwarding(idex IDEXLatch, exmem EXMEMLatch, memwb MEMWBLatch, decision ForwardingDecision) (rs1Value, rs2Value int64) {
	rs1Value, rs2Value = idex.RS1Value, idex.RS2Value

	switch decision.RS1 {
	case ForwardEXMEM:
		if exmem.Instruction.Kind != isa.OpLoad {
			rs1Value = exmem.ALUResult
		}
	case ForwardMEMWB:
		rs1Value = memwb.Result
	}

	switch decision.RS2 {
	case ForwardEXMEM:
		if exmem.Instruction.Kind != isa.OpLoad {
			rs2Value = exmem.ALUResult
		}
	case ForwardMEMWB:
		rs2Value = memwb.Result
	}

	return rs1Value, rs2Value
}
