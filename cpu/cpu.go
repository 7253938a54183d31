// Package cpu wires the microcode store, sequencer, decoder, mapping
// table, ALU, register file, bus master, and CSR store into a single
// RV32I_Zicsr machine-mode core. Step executes exactly one micro-
// instruction; Cycle runs Step until either a full macro-instruction
// retires or the core halts: check what the current tick ought to do,
// then run it.
package cpu

import (
	"log/slog"

	"github.com/rv32ucore/rv32ucore/alu"
	"github.com/rv32ucore/rv32ucore/bus"
	"github.com/rv32ucore/rv32ucore/csr"
	"github.com/rv32ucore/rv32ucore/decode"
	"github.com/rv32ucore/rv32ucore/event"
	"github.com/rv32ucore/rv32ucore/mapping"
	"github.com/rv32ucore/rv32ucore/regfile"
	"github.com/rv32ucore/rv32ucore/rvfi"
	"github.com/rv32ucore/rv32ucore/trap"
	"github.com/rv32ucore/rv32ucore/ucode"
	"github.com/rv32ucore/rv32ucore/util/debug"
)

// CPU is the complete datapath plus control unit. Every field here is
// micro-architectural state; the only architectural state held outside
// regs/csr/pc is the bus master's own pending transaction.
type CPU struct {
	store *ucode.Store
	sched *event.Queue
	bus   *bus.Master

	regs regfile.File
	csr  csr.Store
	alu  alu.ALU

	pc  uint32
	upc uint8

	insn       uint32 // raw word latched on the last instruction fetch
	dec        decode.Decoded
	adr        uint32 // parked bus-address latch
	datW       uint32 // store write-data latch
	datR       uint32 // load read-data latch, already sign/zero extended
	shiftCount uint8
	excCause   uint32

	rvfi *rvfi.Recorder
	log  *slog.Logger
}

// New builds a core around target (the single bus peripheral this core
// talks to) and sched (the tick-scheduled event queue driving its ACK
// latency). sink may be nil to disable RVFI tracing; log may be nil to
// use slog's default logger.
func New(store *ucode.Store, target bus.Target, sched *event.Queue, sink rvfi.Sink, log *slog.Logger) *CPU {
	if log == nil {
		log = slog.Default()
	}
	c := &CPU{
		store: store,
		sched: sched,
		bus:   bus.NewMaster(target, sched),
		rvfi:  rvfi.NewRecorder(sink),
		log:   log,
	}
	c.Reset()
	return c
}

// Reset drives the core's synchronous reset: every architectural and
// micro-architectural register returns to its power-on value, and the
// micro-PC returns to the fetch entry point immediately — the next Step
// call is already the fetch routine's first tick.
func (c *CPU) Reset() {
	c.regs.Reset()
	c.csr.Reset()
	c.alu.Reset()
	c.pc = 0
	c.upc = mapping.Reset
	c.insn = 0
	c.dec = decode.Decoded{}
	c.adr, c.datW, c.datR = 0, 0, 0
	c.shiftCount = 0
	c.excCause = 0
	c.log.Info("cpu reset")
}

// PC reports the current program counter, for tests and tracing.
func (c *CPU) PC() uint32 { return c.pc }

// Reg reports the architectural value of integer register addr, for tests
// and tracing. Register 0 always reads zero.
func (c *CPU) Reg(addr uint8) uint32 { return c.regs.Read(addr) }

// CSR reports the value of CSR num if this core backs it, for tests and
// tracing.
func (c *CPU) CSR(num uint16) (uint32, bool) { return c.csr.Read(num) }

// SetExternalIRQ drives the core's single external interrupt line.
func (c *CPU) SetExternalIRQ(pending bool) { c.csr.SetExternalIRQ(pending) }

// PresetCSR writes val into CSR num outside of instruction execution, for
// a board-level loader to establish a non-zero mtvec (or other CSR)
// before the core's first fetch. It reports whether this core backs num.
func (c *CPU) PresetCSR(num uint16, val uint32) bool { return c.csr.Write(num, val) }

// Halted reports whether the micro-PC has reached the halt or panic
// slot, i.e. Step would make no further architectural progress.
func (c *CPU) Halted() bool {
	return c.upc == ucode.HaltAddr || c.upc == ucode.PanicAddr
}

// Cycle runs Step repeatedly until either one macro-instruction retires
// (the micro-PC returns to the fetch entry point) or the core halts,
// returning ticks spent and whether the cycle ended in a terminal state.
func (c *CPU) Cycle() (ticks int, halted bool) {
	for {
		if c.Halted() {
			return ticks, true
		}
		prev := c.upc
		c.Step()
		ticks++
		if c.Halted() {
			return ticks, true
		}
		if c.upc == mapping.Reset && prev != mapping.Reset {
			return ticks, false
		}
	}
}

// Step executes exactly one micro-instruction: the word at the current
// micro-PC is looked up, every field it sets fires this tick, and the
// sequencer computes the next micro-PC from whichever condition the word
// selects.
func (c *CPU) Step() {
	c.sched.Advance(1)
	w := c.store.Lookup(c.upc)

	if c.upc == mapping.Reset {
		c.rvfi.Begin(c.pc)
	}

	var gp uint32
	if w.RegRead {
		switch w.RegRSel {
		case ucode.RegRSelRs1:
			gp = c.regs.Read(c.dec.Rs1)
			c.rvfi.Cur().Rs1Addr, c.rvfi.Cur().Rs1RData = c.dec.Rs1, gp
		case ucode.RegRSelRs2:
			gp = c.regs.Read(c.dec.Rs2)
			c.rvfi.Cur().Rs2Addr, c.rvfi.Cur().Rs2RData = c.dec.Rs2, gp
		}
	}

	var csrVal uint32
	csrReadIllegal := false
	if w.ASrc == ucode.ASrcCSR || w.BSrc == ucode.BSrcCSR {
		num := c.csrNum(w)
		v, ok := c.csr.Read(num)
		csrVal = v
		csrReadIllegal = !ok
	}

	if w.LatchA {
		c.alu.A = c.resolveA(w, gp, csrVal)
	}
	if w.LatchB {
		c.alu.B = c.resolveB(w, gp, csrVal)
	}
	if w.LatchA || w.LatchB {
		c.alu.Compute(w.AluOp, w.AluIMod, w.AluOMod)
	}

	switch w.ShiftCtl {
	case ucode.ShiftLoad:
		c.shiftCount = uint8(c.alu.O & 0x1F)
	case ucode.ShiftDec:
		c.shiftCount--
	}

	if w.RegWrite && !csrReadIllegal {
		addr := c.dec.Rd
		if w.RegWSel == ucode.RegWSelZero {
			addr = 0
		}
		c.regs.Write(addr, c.alu.O)
		c.rvfi.Cur().RdAddr, c.rvfi.Cur().RdWData = addr, c.alu.O
	}

	if w.LatchAdr {
		c.adr = c.alu.O
	}
	if w.LatchData {
		c.datW = c.regs.Read(c.dec.Rs2)
	}

	csrWriteIllegal := false
	if w.CSROp == ucode.CSROpWrite {
		num := c.csrNum(w)
		if !c.csr.Write(num, c.alu.O) {
			csrWriteIllegal = true
		} else {
			c.traceCSRWrite(num, c.alu.O)
		}
	}
	if w.ASrc == ucode.ASrcCSR || w.BSrc == ucode.BSrcCSR {
		c.traceCSRRead(c.csrNum(w), csrVal)
	}

	var memValid bool
	if w.MemReq {
		width := busWidth(w.MemSel)
		req := bus.Request{Addr: c.adr, Write: w.WriteMem, Width: width, WData: c.datW}
		c.bus.Begin(req)
		if c.bus.Valid() {
			memValid = true
			resp := c.bus.Result()
			if w.InsnFetch {
				c.insn = resp.RData
				c.dec = decode.Decode(c.insn)
			} else {
				c.datR = extend(resp.RData, w)
				c.traceMem(w, req.Addr, resp.RData)
			}
		}
	}

	misaligned := false
	if w.CondTest == ucode.CondMisaligned {
		misaligned = c.misaligned(w)
	}

	pcAction := w.PCAction
	if w.CondTest == ucode.CondMisaligned && !w.InvertTest &&
		(pcAction == ucode.PCLoadALUO || pcAction == ucode.PCLoadAdr) && misaligned {
		// The prospective address is about to fault: do not commit it.
		// The exception entry this tick routes to needs PC still holding
		// the address of the instruction that computed the bad target,
		// not the target itself.
		pcAction = ucode.PCHold
	}
	switch pcAction {
	case ucode.PCInc:
		c.pc += 4
	case ucode.PCLoadALUO:
		c.pc = c.alu.O
	case ucode.PCLoadAdr:
		c.pc = c.adr
	}

	switch w.ExceptCtl {
	case ucode.ExceptLatchDecoderCause:
		c.latchDecoderCause()
	case ucode.ExceptLatchJumpTargetCause:
		c.excCause = trap.InstructionAddressMisaligned
	case ucode.ExceptLatchLoadAddressCause:
		c.excCause = trap.LoadAddressMisaligned
	case ucode.ExceptLatchStoreAddressCause:
		c.excCause = trap.StoreAddressMisaligned
	case ucode.ExceptEnterTrap:
		c.csr.EnterTrap()
	case ucode.ExceptLeaveTrap:
		c.csr.LeaveTrap()
	}

	var next uint8
	if csrReadIllegal || csrWriteIllegal {
		// A CSR number this core does not back at all surfaces only once
		// the microcode actually tries to touch it; override whatever the
		// word's own jump_type says and fault right here.
		c.excCause = trap.IllegalInstruction
		next = mapping.ExceptionEntry
	} else {
		test := c.evalCond(w, memValid, misaligned)
		if w.InvertTest {
			test = !test
		}
		next = c.sequence(w, test)
	}

	switch {
	case c.upc == mapping.ExceptionEntry+2:
		c.retire(true)
	case next == mapping.Reset && c.upc != mapping.Reset:
		c.retire(false)
	}

	c.upc = next
}

func (c *CPU) retire(isTrap bool) {
	if isTrap {
		c.log.Debug("trap entry", "cause", c.excCause, "pc", c.pc)
		debug.Debugf("cpu", debugMask, debugTrace, "trap cause=%#x pc=%#x", c.excCause, c.pc)
		c.rvfi.RetireTrap(c.insn, c.excCause == cpuIntrCause)
		return
	}
	debug.Debugf("cpu", debugMask, debugTrace, "retire pc=%#x insn=%#x", c.pc, c.insn)
	c.rvfi.Retire(c.insn)
}

// debugMask is the live DEBUG CPU option mask, set by runconfig through
// SetDebugMask before the core starts running.
var debugMask int

// debugTrace is the one debug level this core uses; the DEBUG option's
// bitmask-gate shape has room for finer-grained levels if a future debug
// category needs one.
const debugTrace = 1

// SetDebugMask sets the live CPU debug trace mask (see util/debug.Debugf).
func SetDebugMask(mask int) { debugMask = mask }

// cpuIntrCause is trap.MachineExternalInterrupt, named locally so
// retire's comparison reads as "is this an interrupt" rather than a
// magic-looking repeat of the imported constant.
const cpuIntrCause = trap.MachineExternalInterrupt

func (c *CPU) csrAccess(num uint16) rvfi.CSRAccess {
	if c.rvfi.Cur().CSR == nil {
		c.rvfi.Cur().CSR = make(map[uint16]rvfi.CSRAccess)
	}
	return c.rvfi.Cur().CSR[num]
}

func (c *CPU) traceCSRRead(num uint16, val uint32) {
	acc := c.csrAccess(num)
	acc.RMask, acc.RData = 0xFFFFFFFF, val
	c.rvfi.Cur().CSR[num] = acc
}

func (c *CPU) traceCSRWrite(num uint16, val uint32) {
	acc := c.csrAccess(num)
	acc.WMask, acc.WData = 0xFFFFFFFF, val
	c.rvfi.Cur().CSR[num] = acc
}

func (c *CPU) traceMem(w ucode.Word, addr, data uint32) {
	mask := byte(0xF)
	switch w.MemSel {
	case ucode.MemSelByte:
		mask = 1 << (addr & 3)
	case ucode.MemSelHalf:
		mask = 0b11 << (addr & 2)
	}
	cur := c.rvfi.Cur()
	cur.MemAddr = addr
	if w.WriteMem {
		cur.MemWMask, cur.MemWData = mask, data
	} else {
		cur.MemRMask, cur.MemRData = mask, data
	}
}

// csrNum resolves which CSR number a word's CSR-related fields address.
func (c *CPU) csrNum(w ucode.Word) uint16 {
	if w.CSRSel == ucode.CSRSelMicroTarget {
		return w.CSRNum
	}
	return c.dec.CSR
}

func (c *CPU) resolveA(w ucode.Word, gp, csrVal uint32) uint32 {
	switch w.ASrc {
	case ucode.ASrcGP:
		return gp
	case ucode.ASrcImm:
		return uint32(c.dec.Imm)
	case ucode.ASrcALUO:
		return c.alu.O
	case ucode.ASrcZero:
		return 0
	case ucode.ASrcFour:
		return 4
	case ucode.ASrcThirtyOne:
		return 31
	case ucode.ASrcZimm:
		return uint32(c.dec.Rs1)
	case ucode.ASrcCSR:
		return csrVal
	}
	return 0
}

func (c *CPU) resolveB(w ucode.Word, gp, csrVal uint32) uint32 {
	switch w.BSrc {
	case ucode.BSrcGP:
		return gp
	case ucode.BSrcPC:
		return c.pc
	case ucode.BSrcImm:
		return uint32(c.dec.Imm)
	case ucode.BSrcOne:
		return 1
	case ucode.BSrcDatR:
		return c.datR
	case ucode.BSrcCSR:
		return csrVal
	case ucode.BSrcMCauseLatch:
		return c.excCause
	case ucode.BSrcZimm:
		return uint32(c.dec.Rs1)
	}
	return 0
}

// latchDecoderCause applies the dispatch-time cause priority: illegal
// instruction, then EBREAK, then ECALL, then a pending and enabled
// external interrupt. Instruction-address-misalignment never
// reaches here, since every control-flow routine checks its own target's
// alignment before PC ever commits to it.
func (c *CPU) latchDecoderCause() {
	switch {
	case c.dec.Illegal:
		c.excCause = trap.IllegalInstruction
	case c.dec.EBreak:
		c.excCause = trap.Breakpoint
	case c.dec.ECall:
		c.excCause = trap.EnvironmentCallFromMMode
	case c.irqPending():
		c.excCause = trap.MachineExternalInterrupt
	}
}

// irqPending reports the external-interrupt-taken condition: the line is
// asserted, the global enable is set, and the local enable is set.
func (c *CPU) irqPending() bool {
	return c.csr.MEIP() && c.csr.MIE() && c.csr.MEIE()
}

// pendingException is cond_test=exception, deliberately not including
// ECALL/EBREAK: those reach the trap entry via the mapping table's own
// special-cased imm12 values, not the dispatch word's own
// jump-on-exception.
func (c *CPU) pendingException() bool {
	return c.dec.Illegal || c.irqPending()
}

func (c *CPU) evalCond(w ucode.Word, memValid, misaligned bool) bool {
	switch w.CondTest {
	case ucode.CondException:
		return c.pendingException()
	case ucode.CondALUZero:
		return c.alu.Zero()
	case ucode.CondMemValid:
		return memValid
	case ucode.CondShiftCountZero:
		return c.shiftCount == 0
	case ucode.CondMisaligned:
		return misaligned
	case ucode.CondTrue:
		return true
	}
	return false
}

// misaligned implements cond_test=misaligned's two modes (word.go):
// a prospective PC commit must be 4-byte aligned; otherwise the parked
// address register is checked against the current word's access width.
func (c *CPU) misaligned(w ucode.Word) bool {
	if w.PCAction == ucode.PCLoadALUO || w.PCAction == ucode.PCLoadAdr {
		addr := c.adr
		if w.PCAction == ucode.PCLoadALUO {
			addr = c.alu.O
		}
		return addr&0x3 != 0
	}
	return !bus.Aligned(c.adr, busWidth(w.MemSel))
}

// sequence is the micro-PC sequencer.
func (c *CPU) sequence(w ucode.Word, test bool) uint8 {
	switch w.JmpType {
	case ucode.JmpCont:
		return c.upc + 1
	case ucode.JmpDirect:
		if test {
			return w.Target
		}
		return c.upc + 1
	case ucode.JmpDirectZero:
		if test {
			return w.Target
		}
		return mapping.Reset
	case ucode.JmpMap:
		if test {
			return w.Target
		}
		addr, ok := mapping.Start(c.dec.Opcode, c.dec.Funct3, c.dec.Bit30, c.dec.CSR)
		if !ok {
			return ucode.PanicAddr
		}
		return addr
	}
	return ucode.PanicAddr
}

func busWidth(sel ucode.MemSel) bus.Width {
	switch sel {
	case ucode.MemSelByte:
		return bus.Byte
	case ucode.MemSelHalf:
		return bus.Half
	default:
		return bus.Word
	}
}

// extend applies a load's sign/zero extension as the datum flows off the
// bus: raw already carries only the addressed width's bytes in its low
// bits, since bus.RAM's read loop only ORs in req.Width bytes.
func extend(raw uint32, w ucode.Word) uint32 {
	switch w.MemSel {
	case ucode.MemSelByte:
		if w.MemExtend == ucode.MemExtendSign {
			return uint32(int32(int8(raw)))
		}
		return raw & 0xFF
	case ucode.MemSelHalf:
		if w.MemExtend == ucode.MemExtendSign {
			return uint32(int32(int16(raw)))
		}
		return raw & 0xFFFF
	default:
		return raw
	}
}
