package isa

// Bit layout (MSB first, bit 31 down to bit 0):
//
//	R: opcode[31:26] rs1[25:21] rs2[20:16] rd[15:11] funct[10:0]
//	I: opcode[31:26] rs1[25:21] rd[20:16]  imm[15:0]
//	S: opcode[31:26] rs[25:21]  imm[20:0]
//	B: opcode[31:26] rs1[25:21] rs2[20:16] target[15:0]
//	J: opcode[31:26] target[25:0]

func opcodeFor(k Kind) uint32 {
	switch k {
	case OpAdd:
		return opcodeAdd
	case OpSub:
		return opcodeSub
	case OpMul:
		return opcodeMul
	case OpLoad:
		return opcodeLoad
	case OpStore:
		return opcodeStore
	case OpBeq:
		return opcodeBeq
	case OpJump:
		return opcodeJump
	default:
		return opcodeAdd
	}
}

func kindForOpcode(opcode uint32) (Kind, bool) {
	switch opcode {
	case opcodeAdd:
		return OpAdd, true
	case opcodeSub:
		return OpSub, true
	case opcodeMul:
		return OpMul, true
	case opcodeLoad:
		return OpLoad, true
	case opcodeStore:
		return OpStore, true
	case opcodeBeq:
		return OpBeq, true
	case opcodeJump:
		return OpJump, true
	default:
		return OpNop, false
	}
}

// Encode packs an instruction into its 32-bit binary representation.
func Encode(instr Instruction) uint32 {
	opcode := opcodeFor(instr.Kind)
	switch instr.Kind.Format() {
	case FormatR:
		return opcode<<26 | uint32(instr.RS1)<<21 | uint32(instr.RS2)<<16 | uint32(instr.RD)<<11
	case FormatI:
		return opcode<<26 | uint32(instr.RS1)<<21 | uint32(instr.RD)<<16 | uint32(instr.Imm)&0xFFFF
	case FormatS:
		return opcode<<26 | uint32(instr.RS)<<21 | uint32(instr.Imm)&0x1FFFFF
	case FormatB:
		return opcode<<26 | uint32(instr.RS1)<<21 | uint32(instr.RS2)<<16 | uint32(instr.Target)&0xFFFF
	case FormatJ:
		return opcode<<26 | uint32(instr.Target)&0x3FFFFFF
	default:
		return opcode << 26
	}
}

// Decode unpacks a 32-bit binary word into an instruction record. An
// opcode with no matching Kind decodes as OpNop.
func Decode(word uint32) Instruction {
	opcode := (word >> 26) & 0x3F
	kind, ok := kindForOpcode(opcode)
	if !ok {
		return Instruction{Kind: OpNop}
	}

	switch kind.Format() {
	case FormatR:
		return Instruction{
			Kind: kind,
			RS1:  uint8((word >> 21) & 0x1F),
			RS2:  uint8((word >> 16) & 0x1F),
			RD:   uint8((word >> 11) & 0x1F),
		}
	case FormatI:
		return Instruction{
			Kind: kind,
			RS1:  uint8((word >> 21) & 0x1F),
			RD:   uint8((word >> 16) & 0x1F),
			Imm:  signExtend(word&0xFFFF, 16),
		}
	case FormatS:
		return Instruction{
			Kind: kind,
			RS:   uint8((word >> 21) & 0x1F),
			Imm:  signExtend(word&0x1FFFFF, 21),
		}
	case FormatB:
		return Instruction{
			Kind:   kind,
			RS1:    uint8((word >> 21) & 0x1F),
			RS2:    uint8((word >> 16) & 0x1F),
			Target: signExtend(word&0xFFFF, 16),
		}
	case FormatJ:
		return Instruction{
			Kind:   kind,
			Target: signExtend(word&0x3FFFFFF, 26),
		}
	default:
		return Instruction{Kind: OpNop}
	}
}
