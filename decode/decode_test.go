package decode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rv32ucore/rv32ucore/decode"
	"github.com/rv32ucore/rv32ucore/mapping"
)

// encodeR builds an R-type instruction word.
func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func encodeI(opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func TestDecodeFieldsRType(t *testing.T) {
	insn := encodeR(uint32(mapping.OpReg), 0b000, 0, 1, 2, 3)
	d := decode.Decode(insn)
	require.Equal(t, mapping.OpReg, d.Opcode)
	require.EqualValues(t, 1, d.Rd)
	require.EqualValues(t, 2, d.Rs1)
	require.EqualValues(t, 3, d.Rs2)
	require.False(t, d.Illegal)
}

func TestDecodeAddSubDiscriminatedByBit30(t *testing.T) {
	add := decode.Decode(encodeR(uint32(mapping.OpReg), 0b000, 0, 1, 2, 3))
	sub := decode.Decode(encodeR(uint32(mapping.OpReg), 0b000, 0b0100000, 1, 2, 3))
	require.False(t, add.Bit30)
	require.True(t, sub.Bit30)
	require.False(t, add.Illegal)
	require.False(t, sub.Illegal)
}

func TestDecodeIImmediateSignExtends(t *testing.T) {
	d := decode.Decode(encodeI(uint32(mapping.OpImm), 0b000, 1, 2, -1))
	require.Equal(t, int32(-1), d.Imm)

	d = decode.Decode(encodeI(uint32(mapping.OpImm), 0b000, 1, 2, 5))
	require.Equal(t, int32(5), d.Imm)
}

func TestDecodeSImmediate(t *testing.T) {
	// SW x2, -4(x1): imm = -4
	insn := ((uint32(0xFFFFFFFC) >> 5) & 0x7F << 25) | (2 << 20) | (1 << 15) | (0b010 << 12) | (uint32(0xFFFFFFFC)&0x1F)<<7 | uint32(mapping.OpStore)
	d := decode.Decode(insn)
	require.Equal(t, int32(-4), d.Imm)
}

func TestDecodeBImmediateIsEven(t *testing.T) {
	// BEQ x1, x2, 8
	insn := encodeBranchLike(uint32(mapping.OpBranch), 0b000, 1, 2, 8)
	d := decode.Decode(insn)
	require.Equal(t, int32(8), d.Imm)
}

func encodeBranchLike(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 1
	bit11 := (u >> 11) & 1
	bits10_5 := (u >> 5) & 0x3F
	bits4_1 := (u >> 1) & 0xF
	return (bit12 << 31) | (bits10_5 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (bits4_1 << 8) | (bit11 << 7) | opcode
}

func TestDecodeUImmediateIsUpperBits(t *testing.T) {
	insn := (uint32(0x12345) << 12) | (1 << 7) | uint32(mapping.OpLui)
	d := decode.Decode(insn)
	require.Equal(t, int32(0x12345000), d.Imm)
}

func TestDecodeSystemSpecialForms(t *testing.T) {
	ecall := decode.Decode(encodeI(uint32(mapping.OpSystem), 0, 0, 0, 0x000))
	require.True(t, ecall.ECall)

	ebreak := decode.Decode(encodeI(uint32(mapping.OpSystem), 0, 0, 0, 0x001))
	require.True(t, ebreak.EBreak)

	mret := decode.Decode(encodeI(uint32(mapping.OpSystem), 0, 0, 0, 0x302))
	require.True(t, mret.MRet)
}

func TestDecodeIllegalOpImmBadShiftFunct7(t *testing.T) {
	// SLLI requires funct7 == 0; set it nonzero.
	insn := encodeR(uint32(mapping.OpImm), 0b001, 0b0100000, 1, 2, 3)
	d := decode.Decode(insn)
	require.True(t, d.Illegal)
}

func TestDecodeIllegalUndefinedOpcode(t *testing.T) {
	d := decode.Decode(0x0000007F) // opcode bits all set outside known majors
	require.True(t, d.Illegal)
}

func TestDecodeIllegalReservedLoadFunct3(t *testing.T) {
	d := decode.Decode(encodeI(uint32(mapping.OpLoad), 0b011, 1, 2, 0))
	require.True(t, d.Illegal)
}

func TestDecodeCSRFieldExtraction(t *testing.T) {
	insn := encodeI(uint32(mapping.OpSystem), 0b001, 1, 2, 0x305)
	d := decode.Decode(insn)
	require.EqualValues(t, 0x305, d.CSR)
	require.False(t, d.Illegal)
}
