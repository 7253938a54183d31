// Package decode implements the RV32I_Zicsr instruction decoder: it
// classifies the fetched instruction word, extracts its fields,
// sign-extends its immediate, and flags illegal encodings.
package decode

import "github.com/rv32ucore/rv32ucore/mapping"

// Decoded is the decoder's output latch: every field a micro-routine
// might need, computed once per fetched instruction.
type Decoded struct {
	Opcode  uint8  // instr[6:0]
	Funct3  uint8  // instr[14:12]
	Funct7  uint8  // instr[31:25]
	Bit30   bool   // funct7 bit 5 (ADD/SUB, SRL/SRA discriminator)
	Rd      uint8  // instr[11:7]
	Rs1     uint8  // instr[19:15]
	Rs2     uint8  // instr[24:20]
	Imm     int32  // sign-extended per the instruction's format
	CSR     uint16 // instr[31:20], valid for SYSTEM instructions
	Illegal bool
	ECall   bool
	EBreak  bool
	MRet    bool
}

// Decode classifies insn and extracts every field a micro-routine might
// need. Immediate generation follows the base ISA encoding exactly.
func Decode(insn uint32) Decoded {
	d := Decoded{
		Opcode: uint8(insn & 0x7F),
		Funct3: uint8((insn >> 12) & 0x7),
		Funct7: uint8((insn >> 25) & 0x7F),
		Rd:     uint8((insn >> 7) & 0x1F),
		Rs1:    uint8((insn >> 15) & 0x1F),
		Rs2:    uint8((insn >> 20) & 0x1F),
		CSR:    uint16((insn >> 20) & 0xFFF),
	}
	d.Bit30 = (insn & (1 << 30)) != 0

	switch d.Opcode {
	case mapping.OpLoad, mapping.OpImm, mapping.OpJalr:
		d.Imm = signExtend(insn>>20, 12)
	case mapping.OpStore:
		imm := ((insn >> 25) << 5) | ((insn >> 7) & 0x1F)
		d.Imm = signExtend(imm, 12)
	case mapping.OpBranch:
		imm := ((insn >> 31) << 12) |
			(((insn >> 7) & 1) << 11) |
			(((insn >> 25) & 0x3F) << 5) |
			(((insn >> 8) & 0xF) << 1)
		d.Imm = signExtend(imm, 13)
	case mapping.OpLui, mapping.OpAuipc:
		d.Imm = int32(insn & 0xFFFFF000)
	case mapping.OpJal:
		imm := ((insn >> 31) << 20) |
			(((insn >> 12) & 0xFF) << 12) |
			(((insn >> 20) & 1) << 11) |
			(((insn >> 21) & 0x3FF) << 1)
		d.Imm = signExtend(imm, 21)
	}

	d.ECall = d.Opcode == mapping.OpSystem && d.Funct3 == 0 && d.CSR == 0x000
	d.EBreak = d.Opcode == mapping.OpSystem && d.Funct3 == 0 && d.CSR == 0x001
	d.MRet = d.Opcode == mapping.OpSystem && d.Funct3 == 0 && d.CSR == 0x302

	d.Illegal = isIllegal(d)
	return d
}

// signExtend sign-extends the low `bits` bits of v (itself already shifted
// into field position) to a full int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// isIllegal flags undefined major opcodes, reserved funct3/funct7
// combinations, and any SYSTEM instruction other than ECALL/EBREAK/MRET/
// the twelve CSR operations.
func isIllegal(d Decoded) bool {
	switch d.Opcode {
	case mapping.OpLoad:
		switch d.Funct3 {
		case 0b000, 0b001, 0b010, 0b100, 0b101:
			return false
		}
		return true

	case mapping.OpStore:
		switch d.Funct3 {
		case 0b000, 0b001, 0b010:
			return false
		}
		return true

	case mapping.OpBranch:
		switch d.Funct3 {
		case 0b000, 0b001, 0b100, 0b101, 0b110, 0b111:
			return false
		}
		return true

	case mapping.OpJalr:
		return d.Funct3 != 0

	case mapping.OpJal, mapping.OpLui, mapping.OpAuipc:
		return false

	case mapping.OpMiscMem:
		return d.Funct3 != 0 // only FENCE implemented; FENCE.I absent.

	case mapping.OpImm:
		switch d.Funct3 {
		case 0b000, 0b010, 0b011, 0b100, 0b110, 0b111:
			return false
		case 0b001: // SLLI requires funct7 == 0
			return d.Funct7 != 0
		case 0b101: // SRLI/SRAI require funct7 in {0, 0b0100000}
			return d.Funct7 != 0 && d.Funct7 != 0b0100000
		}
		return true

	case mapping.OpReg:
		switch d.Funct3 {
		case 0b000, 0b101: // ADD/SUB, SRL/SRA
			return d.Funct7 != 0 && d.Funct7 != 0b0100000
		case 0b001, 0b010, 0b011, 0b100, 0b110, 0b111:
			return d.Funct7 != 0
		}
		return true

	case mapping.OpSystem:
		if d.Funct3 == 0 {
			return !(d.CSR == 0x000 || d.CSR == 0x001 || d.CSR == 0x302)
		}
		switch d.Funct3 {
		case 0b001, 0b010, 0b011, 0b101, 0b110, 0b111:
			return false
		}
		return true
	}
	return true
}
