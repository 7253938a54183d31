// Package alu implements the single latched-operand ALU: one 32-bit
// add/sub/logical/compare/shift-by-one unit with input and output
// modifiers, used once per micro-tick.
package alu

import "github.com/rv32ucore/rv32ucore/ucode"

// ALU holds the latched A-operand, latched B-operand, and latched output:
// the full micro-architectural state of the unit.
type ALU struct {
	A uint32
	B uint32
	O uint32
}

// Reset clears the latches to their post-reset value of zero.
func (a *ALU) Reset() {
	a.A, a.B, a.O = 0, 0, 0
}

// Compute applies op (with the given input/output modifiers) to the
// latched A/B operands, latches the result into O, and returns it.
func (a *ALU) Compute(op ucode.AluOp, iMod ucode.AluIMod, oMod ucode.AluOMod) uint32 {
	x, y := a.A, a.B
	if iMod == ucode.AluIModInvertMSB {
		x ^= 0x80000000
		y ^= 0x80000000
	}

	var out uint32
	switch op {
	case ucode.AluAdd:
		out = x + y
	case ucode.AluSub:
		out = x - y
	case ucode.AluAnd:
		out = x & y
	case ucode.AluOr:
		out = x | y
	case ucode.AluXor:
		out = x ^ y
	case ucode.AluAndNot:
		out = x &^ y
	case ucode.AluShl1:
		out = x << 1
	case ucode.AluShr1L:
		out = x >> 1
	case ucode.AluShr1A:
		out = uint32(int32(x) >> 1)
	case ucode.AluCmpLTU:
		if x < y {
			out = 1
		} else {
			out = 0
		}
	}

	switch oMod {
	case ucode.AluOModInvertLSB:
		out ^= 1
	case ucode.AluOModClearLSB:
		out &^= 1
	}

	a.O = out
	return out
}

// Zero reports whether the latched output equals zero (cond_test=alu_zero).
func (a *ALU) Zero() bool { return a.O == 0 }
