package isa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Assemble parses a single line of assembly text into an instruction.
// Supported mnemonics and their operand syntax:
//
//	ADD Rd, Rs1, Rs2
//	SUB Rd, Rs1, Rs2
//	MUL Rd, Rs1, Rs2
//	LOAD Rd, addr
//	STORE Rs, addr
//	BEQ Rs1, Rs2, target
//	JUMP target
//
// Register operands are written R<n> (e.g. R3); addr and target are
// plain decimal integers. Blank lines and lines starting with '#' are
// rejected by Assemble; callers that need to skip them should use
// AssembleProgram.
func Assemble(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("isa: empty line")
	}

	mnemonic := strings.ToUpper(fields[0])
	operandText := strings.Join(fields[1:], " ")
	operands := splitOperands(operandText)

	switch mnemonic {
	case "ADD", "SUB", "MUL":
		if len(operands) != 3 {
			return Instruction{}, fmt.Errorf("isa: %s expects 3 operands, got %d", mnemonic, len(operands))
		}
		rd, err := parseReg(operands[0])
		if err != nil {
			return Instruction{}, err
		}
		rs1, err := parseReg(operands[1])
		if err != nil {
			return Instruction{}, err
		}
		rs2, err := parseReg(operands[2])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: mnemonicKind(mnemonic), RD: rd, RS1: rs1, RS2: rs2}, nil

	case "LOAD":
		if len(operands) != 2 {
			return Instruction{}, fmt.Errorf("isa: LOAD expects 2 operands, got %d", len(operands))
		}
		rd, err := parseReg(operands[0])
		if err != nil {
			return Instruction{}, err
		}
		addr, err := parseImm(operands[1])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: OpLoad, RD: rd, Imm: addr}, nil

	case "STORE":
		if len(operands) != 2 {
			return Instruction{}, fmt.Errorf("isa: STORE expects 2 operands, got %d", len(operands))
		}
		rs, err := parseReg(operands[0])
		if err != nil {
			return Instruction{}, err
		}
		addr, err := parseImm(operands[1])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: OpStore, RS: rs, Imm: addr}, nil

	case "BEQ":
		if len(operands) != 3 {
			return Instruction{}, fmt.Errorf("isa: BEQ expects 3 operands, got %d", len(operands))
		}
		rs1, err := parseReg(operands[0])
		if err != nil {
			return Instruction{}, err
		}
		rs2, err := parseReg(operands[1])
		if err != nil {
			return Instruction{}, err
		}
		target, err := parseImm(operands[2])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: OpBeq, RS1: rs1, RS2: rs2, Target: target}, nil

	case "JUMP":
		if len(operands) != 1 {
			return Instruction{}, fmt.Errorf("isa: JUMP expects 1 operand, got %d", len(operands))
		}
		target, err := parseImm(operands[0])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: OpJump, Target: target}, nil

	default:
		return Instruction{}, fmt.Errorf("isa: unrecognized mnemonic %q", mnemonic)
	}
}

// AssembleProgram parses an entire program, one instruction per line.
// Blank lines and lines whose first non-space character is '#' are
// skipped.
func AssembleProgram(r io.Reader) ([]Instruction, error) {
	var program []Instruction
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		instr, err := Assemble(line)
		if err != nil {
			return nil, fmt.Errorf("isa: line %d: %w", lineNo, err)
		}
		program = append(program, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("isa: reading program: %w", err)
	}
	return program, nil
}

// Disassemble renders an instruction back into assembly text.
func Disassemble(instr Instruction) string {
	switch instr.Kind {
	case OpAdd, OpSub, OpMul:
		return fmt.Sprintf("%s R%d, R%d, R%d", instr.Kind, instr.RD, instr.RS1, instr.RS2)
	case OpLoad:
		return fmt.Sprintf("LOAD R%d, %d", instr.RD, instr.Imm)
	case OpStore:
		return fmt.Sprintf("STORE R%d, %d", instr.RS, instr.Imm)
	case OpBeq:
		return fmt.Sprintf("BEQ R%d, R%d, %d", instr.RS1, instr.RS2, instr.Target)
	case OpJump:
		return fmt.Sprintf("JUMP %d", instr.Target)
	default:
		return "NOP"
	}
}

func mnemonicKind(mnemonic string) Kind {
	switch mnemonic {
	case "ADD":
		return OpAdd
	case "SUB":
		return OpSub
	case "MUL":
		return OpMul
	default:
		return OpNop
	}
}

func splitOperands(text string) []string {
	raw := strings.Split(text, ",")
	operands := make([]string, 0, len(raw))
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o != "" {
			operands = append(operands, o)
		}
	}
	return operands
}

func parseReg(token string) (uint8, error) {
	token = strings.TrimSpace(token)
	if len(token) < 2 || (token[0] != 'R' && token[0] != 'r') {
		return 0, fmt.Errorf("isa: %q is not a register operand", token)
	}
	n, err := strconv.Atoi(token[1:])
	if err != nil || n < 0 || n > 31 {
		return 0, fmt.Errorf("isa: %q is not a valid register operand", token)
	}
	return uint8(n), nil
}

func parseImm(token string) (int32, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("isa: %q is not a valid immediate", token)
	}
	return int32(n), nil
}
