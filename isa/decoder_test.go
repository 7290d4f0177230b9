package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/greywind-labs/pipesim/isa"
)

var _ = Describe("Encode/Decode", func() {
	Describe("R-format instructions", func() {
		It("round-trips ADD", func() {
			instr := isa.Instruction{Kind: isa.OpAdd, RD: 3, RS1: 1, RS2: 2}
			word := isa.Encode(instr)
			decoded := isa.Decode(word)
			Expect(decoded.Kind).To(Equal(isa.OpAdd))
			Expect(decoded.RD).To(Equal(uint8(3)))
			Expect(decoded.RS1).To(Equal(uint8(1)))
			Expect(decoded.RS2).To(Equal(uint8(2)))
		})

		It("round-trips SUB and MUL with the same layout", func() {
			sub := isa.Decode(isa.Encode(isa.Instruction{Kind: isa.OpSub, RD: 5, RS1: 4, RS2: 6}))
			Expect(sub.Kind).To(Equal(isa.OpSub))
			mul := isa.Decode(isa.Encode(isa.Instruction{Kind: isa.OpMul, RD: 7, RS1: 2, RS2: 3}))
			Expect(mul.Kind).To(Equal(isa.OpMul))
		})
	})

	Describe("I-format (LOAD)", func() {
		It("round-trips a positive address", func() {
			instr := isa.Instruction{Kind: isa.OpLoad, RD: 9, Imm: 100}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Kind).To(Equal(isa.OpLoad))
			Expect(decoded.RD).To(Equal(uint8(9)))
			Expect(decoded.Imm).To(Equal(int32(100)))
		})

		It("sign-extends a negative 16-bit immediate", func() {
			instr := isa.Instruction{Kind: isa.OpLoad, RD: 1, Imm: -5}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Imm).To(Equal(int32(-5)))
		})
	})

	Describe("S-format (STORE)", func() {
		It("round-trips with the wider 21-bit immediate", func() {
			instr := isa.Instruction{Kind: isa.OpStore, RS: 8, Imm: 1_000_000}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Kind).To(Equal(isa.OpStore))
			Expect(decoded.RS).To(Equal(uint8(8)))
			Expect(decoded.Imm).To(Equal(int32(1_000_000)))
		})

		It("sign-extends a negative 21-bit immediate", func() {
			instr := isa.Instruction{Kind: isa.OpStore, RS: 2, Imm: -42}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Imm).To(Equal(int32(-42)))
		})
	})

	Describe("B-format (BEQ)", func() {
		It("round-trips both source registers and target", func() {
			instr := isa.Instruction{Kind: isa.OpBeq, RS1: 3, RS2: 4, Target: 7}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Kind).To(Equal(isa.OpBeq))
			Expect(decoded.RS1).To(Equal(uint8(3)))
			Expect(decoded.RS2).To(Equal(uint8(4)))
			Expect(decoded.Target).To(Equal(int32(7)))
		})
	})

	Describe("J-format (JUMP)", func() {
		It("round-trips a 26-bit target", func() {
			instr := isa.Instruction{Kind: isa.OpJump, Target: 123456}
			decoded := isa.Decode(isa.Encode(instr))
			Expect(decoded.Kind).To(Equal(isa.OpJump))
			Expect(decoded.Target).To(Equal(int32(123456)))
		})
	})

	Describe("unrecognized opcodes", func() {
		It("decodes to NOP", func() {
			word := uint32(0x3F) << 26
			decoded := isa.Decode(word)
			Expect(decoded.Kind).To(Equal(isa.OpNop))
		})
	})
})
