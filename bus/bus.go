// Package bus implements a Wishbone-Classic-style memory interface: a
// single outstanding transaction, CYC/STB held until ACK, byte-select
// derived from access width and address, and a
// BERR-free happy path (this core has no bus-error handling; an
// unmapped address is a configuration bug, not a modeled fault).
package bus

import (
	"github.com/rv32ucore/rv32ucore/event"
	"github.com/rv32ucore/rv32ucore/util/debug"
)

// debugMask is the live DEBUG BUS option mask, set by runconfig through
// SetDebugMask before the core starts running.
var debugMask int

const debugTrace = 1

// SetDebugMask sets the live bus debug trace mask (see util/debug.Debugf).
func SetDebugMask(mask int) { debugMask = mask }

// Width is the access width of a bus transaction, matching ucode.MemSel
// once it has been resolved against the actual opcode (ucode.MemSelAuto
// never reaches the bus).
type Width uint8

const (
	Byte Width = 1
	Half Width = 2
	Word Width = 4
)

// Aligned reports whether addr is naturally aligned for width. A
// misaligned access must never reach the bus — the caller raises an
// address-misaligned exception instead of calling Master.Begin.
func Aligned(addr uint32, width Width) bool {
	return addr&(uint32(width)-1) == 0
}

// sel returns the byte-select mask for a width-aligned access at addr.
func sel(addr uint32, width Width) uint8 {
	switch width {
	case Byte:
		return 1 << (addr & 3)
	case Half:
		return 0b11 << (addr & 2)
	default:
		return 0b1111
	}
}

// Request describes one bus transaction.
type Request struct {
	Addr  uint32
	Write bool
	Width Width
	WData uint32
}

// Response is what a Target hands back once a transaction completes.
type Response struct {
	RData uint32
}

// Target is anything addressable on the bus: RAM, and eventually memory-
// mapped peripherals, none of which this core's Non-goals include.
// Implementations call done exactly once, synchronously or after
// scheduling a delay on sched.
type Target interface {
	Submit(sched *event.Queue, req Request, done func(Response))
}

// RAM is a flat byte-addressable memory target with a fixed response
// latency, modeling a simple synchronous SRAM behind the Wishbone
// adapter. Zero latency acks combinationally in the same tick the
// request is issued.
type RAM struct {
	mem     []byte
	latency int
}

// NewRAM allocates size bytes of backing store, acking every transaction
// after latency ticks (0 for combinational).
func NewRAM(size int, latency int) *RAM {
	return &RAM{mem: make([]byte, size), latency: latency}
}

// Load installs image starting at byte offset 0, for test fixtures and
// the boot-image loader.
func (r *RAM) Load(image []byte) {
	copy(r.mem, image)
}

func (r *RAM) Submit(sched *event.Queue, req Request, done func(Response)) {
	addr := int(req.Addr)
	if req.Write {
		// sel gives lane bits; shift them so bit i selects byte addr+i.
		selMask := sel(req.Addr, req.Width) >> (req.Addr & 3)
		for i := 0; i < int(req.Width); i++ {
			if selMask&(1<<uint(i)) != 0 && addr+i < len(r.mem) {
				r.mem[addr+i] = byte(req.WData >> (8 * i))
			}
		}
		sched.Schedule(r, func(int) { done(Response{}) }, r.latency, 0)
		return
	}

	var v uint32
	for i := 0; i < int(req.Width); i++ {
		if addr+i < len(r.mem) {
			v |= uint32(r.mem[addr+i]) << (8 * i)
		}
	}
	sched.Schedule(r, func(int) { done(Response{RData: v}) }, r.latency, 0)
}

// Master is the CPU-side half of the handshake: it owns the single
// outstanding transaction and exposes a poll-style interface so the
// micro-sequencer can sit in a wait state on cond_test=mem_valid without
// the bus package knowing anything about microcode.
type Master struct {
	target  Target
	sched   *event.Queue
	pending bool
	done    bool
	resp    Response
}

// NewMaster binds a master to the target it drives and the event queue
// used to schedule response latency.
func NewMaster(target Target, sched *event.Queue) *Master {
	return &Master{target: target, sched: sched}
}

// Begin issues req if no transaction is already outstanding. Calling
// Begin again with a transaction already pending is a no-op, matching
// Wishbone's "hold STB until ACK" rule — the microcode re-asserts the
// same request every wait tick rather than re-submitting it.
func (m *Master) Begin(req Request) {
	if m.pending {
		return
	}
	m.pending = true
	debug.Debugf("bus", debugMask, debugTrace, "begin addr=%#x write=%v width=%d", req.Addr, req.Write, req.Width)
	m.target.Submit(m.sched, req, func(r Response) {
		m.resp = r
		m.done = true
	})
}

// Valid reports whether the outstanding transaction has acked.
func (m *Master) Valid() bool { return m.done }

// Result returns the response of the completed transaction and clears
// the outstanding-transaction state, ready for the next Begin.
func (m *Master) Result() Response {
	r := m.resp
	m.pending, m.done, m.resp = false, false, Response{}
	return r
}
