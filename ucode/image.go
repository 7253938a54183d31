package ucode

import (
	"github.com/rv32ucore/rv32ucore/csr"
	"github.com/rv32ucore/rv32ucore/mapping"
)

// Image builds the microcode program that drives the RV32I_Zicsr
// datapath. Every opcode the mapping table can produce has a home here;
// anything else resolves to the panic slot store.go reserves.
//
// Layout follows the window table in package mapping: each window's
// micro-address is either a complete single-tick routine, or a one-tick
// trampoline into a private multi-tick body placed in the unused space
// between windows, the way a hand-written microcode listing keeps
// related routines near each other without fighting for the same
// addresses as their neighbors in the dispatch table.
//
// PC discipline: the PC register is never advanced until an
// instruction's own routine is ready to retire. Every non-control-flow
// routine's last tick sets PCAction to PCInc; every control-flow routine
// (taken branch, JAL, JALR, MRET, trap entry) instead loads PC with an
// absolute value it computed from the still-unincremented PC earlier in
// its own routine. This is why dispatch does not touch PC: AUIPC, JAL's
// link value, a taken branch's target and mepc all need the address of
// the instruction currently executing, not PC+4.
func Image() (*Store, error) {
	var entries []Entry

	entries = append(entries, fetchRoutine()...)
	entries = append(entries, loadRoutines()...)
	entries = append(entries, storeRoutines()...)
	entries = append(entries, aluImmRoutines()...)
	entries = append(entries, aluRegRoutines()...)
	entries = append(entries, shiftRoutines()...)
	entries = append(entries, branchRoutines()...)
	entries = append(entries, jalRoutine()...)
	entries = append(entries, jalrRoutine()...)
	entries = append(entries, luiRoutine())
	entries = append(entries, auipcRoutine())
	entries = append(entries, fenceRoutine())
	entries = append(entries, csrRoutines()...)
	entries = append(entries, mretRoutine())
	entries = append(entries, exceptionRoutine()...)

	return NewStore(entries)
}

// fetchRoutine issues the instruction fetch, waits for the bus, then
// dispatches: rs1 is read eagerly into the A latch here so every execute
// routine that needs it can skip a register-file cycle.
// PC is left untouched; each execute routine advances it on its own.
func fetchRoutine() []Entry {
	return []Entry{
		{Addr: mapping.Reset, Word: Word{
			ASrc: ASrcZero, LatchA: true,
			BSrc: BSrcPC, LatchB: true,
			AluOp:     AluAdd,
			LatchAdr:  true,
			MemReq:    true,
			InsnFetch: true,
			MemSel:    MemSelWord,
			JmpType:   JmpDirect, CondTest: CondMemValid, InvertTest: true, Target: mapping.Reset,
		}},
		{Addr: mapping.Reset + 1, Word: Word{
			RegRead: true, RegRSel: RegRSelRs1,
			ASrc:      ASrcGP,
			LatchA:    true,
			ExceptCtl: ExceptLatchDecoderCause,
			JmpType:   JmpMap, CondTest: CondException, Target: mapping.ExceptionEntry,
		}},
	}
}

const (
	loadLB, loadLH, loadLW, loadLBU, loadLHU = 0x60, 0x63, 0x66, 0x69, 0x6C
)

func loadRoutines() []Entry {
	var e []Entry
	e = append(e, loadTrampoline(mapping.WinLoad+0, loadLB))
	e = append(e, loadTrampoline(mapping.WinLoad+1, loadLH))
	e = append(e, loadTrampoline(mapping.WinLoad+2, loadLW))
	e = append(e, loadTrampoline(mapping.WinLoad+4, loadLBU))
	e = append(e, loadTrampoline(mapping.WinLoad+5, loadLHU))
	e = append(e, loadBody(loadLB, MemSelByte, MemExtendSign)...)
	e = append(e, loadBody(loadLH, MemSelHalf, MemExtendSign)...)
	e = append(e, loadBody(loadLW, MemSelWord, MemExtendSign)...)
	e = append(e, loadBody(loadLBU, MemSelByte, MemExtendZero)...)
	e = append(e, loadBody(loadLHU, MemSelHalf, MemExtendZero)...)
	return e
}

// loadTrampoline computes rs1+imm into the address latch (A already
// holds rs1 from fetch) and hands off to the width-specific body.
func loadTrampoline(addr uint8, body uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		BSrc:     BSrcImm,
		LatchB:   true,
		AluOp:    AluAdd,
		LatchAdr: true,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: body,
	}}
}

// loadBody is three ticks: a misalignment check, the bus wait, and the
// sign/zero-extended writeback that also retires PC to the next
// instruction.
func loadBody(addr uint8, sel MemSel, extend MemExtend) []Entry {
	return []Entry{
		{Addr: addr, Word: Word{
			MemSel:    sel,
			ExceptCtl: ExceptLatchLoadAddressCause,
			JmpType:   JmpDirect, CondTest: CondMisaligned, Target: mapping.ExceptionEntry,
		}},
		{Addr: addr + 1, Word: Word{
			MemReq: true, MemSel: sel, MemExtend: extend,
			JmpType: JmpDirect, CondTest: CondMemValid, InvertTest: true, Target: addr + 1,
		}},
		{Addr: addr + 2, Word: Word{
			ASrc: ASrcZero, LatchA: true,
			BSrc: BSrcDatR, LatchB: true,
			AluOp:    AluAdd,
			RegWrite: true, RegWSel: RegWSelRd,
			PCAction: PCInc,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

const (
	storeSB, storeSH, storeSW = 0xA7, 0xAA, 0xAD
)

func storeRoutines() []Entry {
	var e []Entry
	e = append(e, storeTrampoline(mapping.WinStore+0, storeSB))
	e = append(e, storeTrampoline(mapping.WinStore+1, storeSH))
	e = append(e, storeTrampoline(mapping.WinStore+2, storeSW))
	e = append(e, storeBody(storeSB, MemSelByte)...)
	e = append(e, storeBody(storeSH, MemSelHalf)...)
	e = append(e, storeBody(storeSW, MemSelWord)...)
	return e
}

// storeTrampoline computes rs1+imm into the address latch and the store
// data register from rs2 (LatchData always reads rs2, independent of
// RegRSel — the data path a store's value takes never depends on what
// the A/B latches are doing for the address computation).
func storeTrampoline(addr uint8, body uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		BSrc:      BSrcImm,
		LatchB:    true,
		AluOp:     AluAdd,
		LatchAdr:  true,
		LatchData: true,
		JmpType:   JmpDirect, CondTest: CondTrue, Target: body,
	}}
}

func storeBody(addr uint8, sel MemSel) []Entry {
	return []Entry{
		{Addr: addr, Word: Word{
			MemSel:    sel,
			ExceptCtl: ExceptLatchStoreAddressCause,
			JmpType:   JmpDirect, CondTest: CondMisaligned, Target: mapping.ExceptionEntry,
		}},
		{Addr: addr + 1, Word: Word{
			MemReq: true, WriteMem: true, MemSel: sel,
			JmpType: JmpDirect, CondTest: CondMemValid, InvertTest: true, Target: addr + 1,
		}},
		{Addr: addr + 2, Word: Word{
			PCAction: PCInc,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

// aluImmRoutines covers the six non-shift OP-IMM instructions. rs1 is
// already in the A latch from fetch, so each is a single tick.
func aluImmRoutines() []Entry {
	return []Entry{
		aluImm(mapping.WinImm+0, AluAdd, AluIModNone),
		aluImm(mapping.WinImm+2, AluCmpLTU, AluIModInvertMSB),
		aluImm(mapping.WinImm+3, AluCmpLTU, AluIModNone),
		aluImm(mapping.WinImm+4, AluXor, AluIModNone),
		aluImm(mapping.WinImm+6, AluOr, AluIModNone),
		aluImm(mapping.WinImm+7, AluAnd, AluIModNone),
	}
}

func aluImm(addr uint8, op AluOp, iMod AluIMod) Entry {
	return Entry{Addr: addr, Word: Word{
		BSrc: BSrcImm, LatchB: true,
		AluOp: op, AluIMod: iMod,
		RegWrite: true, RegWSel: RegWSelRd,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

// aluRegRoutines covers the seven non-shift OP instructions. rs1 is
// already in A; rs2 needs one register-file read, so each is still a
// single tick (the read and the compute share the tick).
func aluRegRoutines() []Entry {
	return []Entry{
		aluReg(mapping.WinOp+0x00, AluAdd, AluIModNone, AluOModNone),
		aluReg(mapping.WinOp+0x08, AluSub, AluIModNone, AluOModNone),
		aluReg(mapping.WinOp+0x02, AluCmpLTU, AluIModInvertMSB, AluOModNone),
		aluReg(mapping.WinOp+0x03, AluCmpLTU, AluIModNone, AluOModNone),
		aluReg(mapping.WinOp+0x04, AluXor, AluIModNone, AluOModNone),
		aluReg(mapping.WinOp+0x06, AluOr, AluIModNone, AluOModNone),
		aluReg(mapping.WinOp+0x07, AluAnd, AluIModNone, AluOModNone),
	}
}

func aluReg(addr uint8, op AluOp, iMod AluIMod, oMod AluOMod) Entry {
	return Entry{Addr: addr, Word: Word{
		RegRead: true, RegRSel: RegRSelRs2,
		BSrc: BSrcGP, LatchB: true,
		AluOp: op, AluIMod: iMod, AluOMod: oMod,
		RegWrite: true, RegWSel: RegWSelRd,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

// Shift instructions (SLL/SRL/SRA and their immediate forms) all funnel
// into one of three 1-bit-at-a-time loops, distinguished only by which
// direction the ALU shifts. The six entry points differ only in where
// the shift amount comes from (rs2 or the instruction's own 5-bit
// immediate); both forms mask it to 5 bits and load the dedicated shift
// counter, then jump to a shared value-load tick before the loop proper.
const (
	shiftValSLL, shiftValSRL, shiftValSRA = 0xE0, 0xE2, 0xE4
	loopSLL, loopSRL, loopSRA             = 0xD1, 0xD4, 0xD7
)

func shiftRoutines() []Entry {
	var e []Entry
	e = append(e, shiftEntryImm(mapping.WinImm+0x08, shiftValSLL))
	e = append(e, shiftEntryImm(mapping.WinImm+0x09, shiftValSRL))
	e = append(e, shiftEntryImm(mapping.WinImm+0x0A, shiftValSRA))
	e = append(e, shiftEntryReg(mapping.WinOp+0x01, shiftValSLL))
	e = append(e, shiftEntryReg(mapping.WinOp+0x05, shiftValSRL))
	e = append(e, shiftEntryReg(mapping.WinOp+0x09, shiftValSRA))
	e = append(e, shiftValueLoad(shiftValSLL, loopSLL))
	e = append(e, shiftValueLoad(shiftValSRL, loopSRL))
	e = append(e, shiftValueLoad(shiftValSRA, loopSRA))
	e = append(e, shiftLoop(loopSLL, AluShl1)...)
	e = append(e, shiftLoop(loopSRL, AluShr1L)...)
	e = append(e, shiftLoop(loopSRA, AluShr1A)...)
	return e
}

func shiftEntryImm(addr uint8, valueLoad uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		ASrc: ASrcThirtyOne, LatchA: true,
		BSrc: BSrcImm, LatchB: true,
		AluOp:    AluAnd,
		ShiftCtl: ShiftLoad,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: valueLoad,
	}}
}

func shiftEntryReg(addr uint8, valueLoad uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		ASrc: ASrcThirtyOne, LatchA: true,
		RegRead: true, RegRSel: RegRSelRs2,
		BSrc: BSrcGP, LatchB: true,
		AluOp:    AluAnd,
		ShiftCtl: ShiftLoad,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: valueLoad,
	}}
}

// shiftValueLoad re-reads rs1 (the count entry above clobbered A with
// the masked shift amount) so the loop's first iteration starts from the
// unshifted operand.
func shiftValueLoad(addr uint8, loop uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		RegRead: true, RegRSel: RegRSelRs1,
		ASrc: ASrcGP, LatchA: true,
		BSrc: BSrcZero, LatchB: true,
		AluOp:   AluAdd,
		JmpType: JmpDirect, CondTest: CondTrue, Target: loop,
	}}
}

// shiftLoop is a test-before-body loop, not decrement-then-test: the
// count is examined before any shift happens this iteration, so a
// shift-by-zero takes the writeback exit without ever touching the
// accumulator.
func shiftLoop(addr uint8, op AluOp) []Entry {
	return []Entry{
		{Addr: addr, Word: Word{ // test
			JmpType: JmpDirect, CondTest: CondShiftCountZero, Target: addr + 2,
		}},
		{Addr: addr + 1, Word: Word{ // shift one bit, count down, loop
			ASrc: ASrcALUO, LatchA: true,
			BSrc: BSrcOne, LatchB: true,
			AluOp:    op,
			ShiftCtl: ShiftDec,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: addr,
		}},
		{Addr: addr + 2, Word: Word{ // writeback
			ASrc: ASrcALUO, LatchA: true,
			BSrc: BSrcZero, LatchB: true,
			AluOp:    AluAdd,
			RegWrite: true, RegWSel: RegWSelRd,
			PCAction: PCInc,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

const branchTarget = 0x90

// Each branch window slot is itself a 1-tick trampoline: it spends its
// only tick on the register read and ALU comparison (so the slot
// adjacent to a sibling branch opcode never needs a second tick of its
// own), then hands off unconditionally to a private test tick. The test
// tick re-examines the still-valid ALU output (combinational, unchanged
// since no A/B latch has fired since) to decide taken vs. not-taken.
// Not-taken falls through to a private stub that advances PC and returns
// to fetch; taken falls through to the shared target computation, which
// still sees the unincremented PC because nothing has touched it yet.
func branchRoutines() []Entry {
	var e []Entry
	e = append(e, branchGroup(mapping.WinBranch+0, 0x92, AluXor, AluIModNone, AluOModNone, false)...)
	e = append(e, branchGroup(mapping.WinBranch+1, 0x94, AluXor, AluIModNone, AluOModNone, true)...)
	e = append(e, branchGroup(mapping.WinBranch+4, 0x96, AluCmpLTU, AluIModInvertMSB, AluOModNone, true)...)
	e = append(e, branchGroup(mapping.WinBranch+5, 0x9C, AluCmpLTU, AluIModInvertMSB, AluOModInvertLSB, true)...)
	e = append(e, branchGroup(mapping.WinBranch+6, 0x9E, AluCmpLTU, AluIModNone, AluOModNone, true)...)
	e = append(e, branchGroup(mapping.WinBranch+7, 0x6F, AluCmpLTU, AluIModNone, AluOModInvertLSB, true)...)
	e = append(e, Entry{Addr: branchTarget, Word: Word{
		ASrc: ASrcImm, LatchA: true,
		BSrc: BSrcPC, LatchB: true,
		AluOp:     AluAdd,
		PCAction:  PCLoadALUO,
		ExceptCtl: ExceptLatchJumpTargetCause,
		JmpType:   JmpDirect, CondTest: CondMisaligned, Target: mapping.ExceptionEntry,
	}})
	e = append(e, Entry{Addr: branchTarget + 1, Word: Word{
		JmpType: JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}})
	return e
}

// branchGroup lays out one branch instruction's window-slot entry, its
// private test tick at testAddr, and its private not-taken stub at
// testAddr+1.
func branchGroup(entryAddr, testAddr uint8, op AluOp, iMod AluIMod, oMod AluOMod, invert bool) []Entry {
	return []Entry{
		{Addr: entryAddr, Word: Word{
			RegRead: true, RegRSel: RegRSelRs2,
			BSrc: BSrcGP, LatchB: true,
			AluOp: op, AluIMod: iMod, AluOMod: oMod,
			JmpType: JmpDirect, CondTest: CondTrue, Target: testAddr,
		}},
		{Addr: testAddr, Word: Word{
			JmpType: JmpDirect, CondTest: CondALUZero, InvertTest: invert, Target: branchTarget,
		}},
		{Addr: testAddr + 1, Word: Word{
			PCAction: PCInc,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

func jalRoutine() []Entry {
	return []Entry{
		{Addr: mapping.WinJal, Word: Word{
			ASrc: ASrcFour, LatchA: true,
			BSrc: BSrcPC, LatchB: true,
			AluOp:    AluAdd,
			RegWrite: true, RegWSel: RegWSelRd,
			JmpType: JmpCont,
		}},
		{Addr: mapping.WinJal + 1, Word: Word{
			ASrc: ASrcImm, LatchA: true,
			BSrc: BSrcPC, LatchB: true,
			AluOp:     AluAdd,
			PCAction:  PCLoadALUO,
			ExceptCtl: ExceptLatchJumpTargetCause,
			JmpType:   JmpDirect, CondTest: CondMisaligned, Target: mapping.ExceptionEntry,
		}},
		{Addr: mapping.WinJal + 2, Word: Word{
			JmpType: JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

func jalrRoutine() []Entry {
	return []Entry{
		{Addr: mapping.WinJalr, Word: Word{
			BSrc:     BSrcImm,
			LatchB:   true,
			AluOp:    AluAdd,
			AluOMod:  AluOModClearLSB,
			LatchAdr: true,
			JmpType:  JmpCont,
		}},
		{Addr: mapping.WinJalr + 1, Word: Word{
			ASrc: ASrcFour, LatchA: true,
			BSrc: BSrcPC, LatchB: true,
			AluOp:    AluAdd,
			RegWrite: true, RegWSel: RegWSelRd,
			JmpType: JmpCont,
		}},
		{Addr: mapping.WinJalr + 2, Word: Word{
			PCAction:  PCLoadAdr,
			ExceptCtl: ExceptLatchJumpTargetCause,
			JmpType:   JmpDirect, CondTest: CondMisaligned, Target: mapping.ExceptionEntry,
		}},
		{Addr: mapping.WinJalr + 3, Word: Word{
			JmpType: JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}

func luiRoutine() Entry {
	return Entry{Addr: mapping.WinLui, Word: Word{
		ASrc: ASrcImm, LatchA: true,
		BSrc: BSrcZero, LatchB: true,
		AluOp:    AluAdd,
		RegWrite: true, RegWSel: RegWSelRd,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

func auipcRoutine() Entry {
	return Entry{Addr: mapping.WinAuipc, Word: Word{
		ASrc: ASrcImm, LatchA: true,
		BSrc: BSrcPC, LatchB: true,
		AluOp:    AluAdd,
		RegWrite: true, RegWSel: RegWSelRd,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

func fenceRoutine() Entry {
	return Entry{Addr: mapping.WinMisc, Word: Word{
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

// csrRoutines covers the six CSRRW/CSRRS/CSRRC/CSRRWI/CSRRSI/CSRRCI
// forms. Every variant reads the addressed CSR's current value into rd
// first (the read is non-destructive, so the same CSR can be read again
// a tick later to compute the new value), then writes the combined
// result.
func csrRoutines() []Entry {
	const (
		bodyRW, bodyRS, bodyRC    = 0x31, 0x33, 0x35
		bodyRWI, bodyRSI, bodyRCI = 0x37, 0x39, 0x3B
	)
	var e []Entry
	e = append(e, csrTrampoline(mapping.WinCSR+0, bodyRW))
	e = append(e, csrTrampoline(mapping.WinCSR+1, bodyRS))
	e = append(e, csrTrampoline(mapping.WinCSR+2, bodyRC))
	e = append(e, csrTrampoline(mapping.WinCSR+4, bodyRWI))
	e = append(e, csrTrampoline(mapping.WinCSR+5, bodyRSI))
	e = append(e, csrTrampoline(mapping.WinCSR+6, bodyRCI))

	e = append(e, csrReadOld(bodyRW), csrWriteReg(bodyRW+1, AluAdd, false))
	e = append(e, csrReadOld(bodyRS), csrWriteReg(bodyRS+1, AluOr, true))
	e = append(e, csrReadOld(bodyRC), csrWriteReg(bodyRC+1, AluAndNot, true))
	e = append(e, csrReadOld(bodyRWI), csrWriteImm(bodyRWI+1, AluAdd, false))
	e = append(e, csrReadOld(bodyRSI), csrWriteImm(bodyRSI+1, AluOr, true))
	e = append(e, csrReadOld(bodyRCI), csrWriteImm(bodyRCI+1, AluAndNot, true))
	return e
}

func csrTrampoline(addr uint8, body uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		JmpType: JmpDirect, CondTest: CondTrue, Target: body,
	}}
}

func csrReadOld(addr uint8) Entry {
	return Entry{Addr: addr, Word: Word{
		CSRSel: CSRSelInsn,
		ASrc: ASrcZero, LatchA: true,
		BSrc: BSrcCSR, LatchB: true,
		AluOp:    AluAdd,
		RegWrite: true, RegWSel: RegWSelRd,
		JmpType: JmpCont,
	}}
}

// csrWriteReg computes the new CSR value from rs1: for CSRRW that value
// passes straight through (A=rs1, B=0); for CSRRS/CSRRC it combines with
// the old CSR value (read fresh via ASrcCSR) in B=rs1.
func csrWriteReg(addr uint8, op AluOp, withOld bool) Entry {
	w := Word{
		RegRead: true, RegRSel: RegRSelRs1,
		AluOp: op,
		CSROp: CSROpWrite, CSRSel: CSRSelInsn,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}
	if withOld {
		w.ASrc, w.LatchA = ASrcCSR, true
		w.BSrc, w.LatchB = BSrcGP, true
	} else {
		w.ASrc, w.LatchA = ASrcGP, true
		w.BSrc, w.LatchB = BSrcZero, true
	}
	return Entry{Addr: addr, Word: w}
}

func csrWriteImm(addr uint8, op AluOp, withOld bool) Entry {
	w := Word{
		AluOp: op,
		CSROp: CSROpWrite, CSRSel: CSRSelInsn,
		PCAction: PCInc,
		JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}
	if withOld {
		w.ASrc, w.LatchA = ASrcCSR, true
		w.BSrc, w.LatchB = BSrcZimm, true
	} else {
		w.ASrc, w.LatchA = ASrcZimm, true
		w.BSrc, w.LatchB = BSrcZero, true
	}
	return Entry{Addr: addr, Word: w}
}

func mretRoutine() Entry {
	return Entry{Addr: mapping.WinMret, Word: Word{
		CSROp: CSROpRead, CSRSel: CSRSelMicroTarget, CSRNum: csr.Mepc,
		ASrc: ASrcZero, LatchA: true,
		BSrc: BSrcCSR, LatchB: true,
		AluOp:     AluAdd,
		PCAction:  PCLoadALUO,
		ExceptCtl: ExceptLeaveTrap,
		JmpType:   JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
	}}
}

// exceptionRoutine is the fixed trap-entry sequence every exception and
// interrupt funnels into: save the trapping PC, save the cause, update
// MIE/MPIE, and load PC from mtvec.
func exceptionRoutine() []Entry {
	return []Entry{
		{Addr: mapping.ExceptionEntry, Word: Word{
			CSROp: CSROpWrite, CSRSel: CSRSelMicroTarget, CSRNum: csr.Mepc,
			ASrc: ASrcZero, LatchA: true,
			BSrc: BSrcPC, LatchB: true,
			AluOp:   AluAdd,
			JmpType: JmpCont,
		}},
		{Addr: mapping.ExceptionEntry + 1, Word: Word{
			CSROp: CSROpWrite, CSRSel: CSRSelMicroTarget, CSRNum: csr.Mcause,
			ASrc: ASrcZero, LatchA: true,
			BSrc: BSrcMCauseLatch, LatchB: true,
			AluOp:     AluAdd,
			ExceptCtl: ExceptEnterTrap,
			JmpType:   JmpCont,
		}},
		{Addr: mapping.ExceptionEntry + 2, Word: Word{
			CSROp: CSROpRead, CSRSel: CSRSelMicroTarget, CSRNum: csr.Mtvec,
			ASrc: ASrcZero, LatchA: true,
			BSrc: BSrcCSR, LatchB: true,
			AluOp:    AluAdd,
			PCAction: PCLoadALUO,
			JmpType:  JmpDirect, CondTest: CondTrue, Target: mapping.Reset,
		}},
	}
}
