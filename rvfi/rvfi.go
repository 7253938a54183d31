// Package rvfi implements an optional RISC-V Formal Interface retirement
// trace: one Record per retired instruction or taken trap, suitable for
// replay against a reference model. A Record is just a value emitted
// through a sink, one per event, rather than a live hardware bus.
package rvfi

// Record is one RVFI retirement entry. Field names follow the RVFI
// specification's channel names directly, since this is the interchange
// format other tools consume.
type Record struct {
	Valid    bool
	Order    uint64
	Insn     uint32
	Trap     bool
	Halt     bool
	Intr     bool
	Mode     uint8 // always 3: machine mode is the only mode this core has.
	IXL      uint8 // always 1: XLEN=32.
	Rs1Addr  uint8
	Rs1RData uint32
	Rs2Addr  uint8
	Rs2RData uint32
	RdAddr   uint8
	RdWData  uint32
	PCRData  uint32
	PCWData  uint32
	MemAddr  uint32
	MemRMask uint8
	MemWMask uint8
	MemRData uint32
	MemWData uint32
	CSR      map[uint16]CSRAccess
}

// CSRAccess records one CSR's read/write activity during a retirement,
// RVFI's per-CSR channel group.
type CSRAccess struct {
	RMask uint32
	WMask uint32
	RData uint32
	WData uint32
}

// Sink receives completed records in retirement order. A nil Sink is a
// valid no-op trace target (the common case: tracing is off).
type Sink interface {
	Emit(Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Record)

func (f SinkFunc) Emit(r Record) { f(r) }

// Recorder assembles one Record across however many micro-ticks an
// instruction takes, then hands it to the sink on retirement.
type Recorder struct {
	sink  Sink
	order uint64
	cur   Record
}

// NewRecorder wraps sink. With a nil sink, Retire, RetireTrap and
// RetireHalt emit nothing.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Begin starts a fresh record for the instruction at pc.
func (r *Recorder) Begin(pc uint32) {
	r.cur = Record{PCRData: pc, Mode: 3, IXL: 1}
}

// Cur exposes the in-progress record so the caller can fill in fields as
// the micro-routine executes (register reads, memory access, CSR
// access) without the recorder needing to know the datapath's shape.
func (r *Recorder) Cur() *Record { return &r.cur }

// Retire finalizes the in-progress record as a normal retirement and
// emits it, if a sink is attached.
func (r *Recorder) Retire(insn uint32) {
	if r.sink == nil {
		return
	}
	r.order++
	r.cur.Valid = true
	r.cur.Order = r.order
	r.cur.Insn = insn
	r.sink.Emit(r.cur)
}

// RetireTrap finalizes the in-progress record as a trap entry.
func (r *Recorder) RetireTrap(insn uint32, intr bool) {
	if r.sink == nil {
		return
	}
	r.order++
	r.cur.Valid = true
	r.cur.Order = r.order
	r.cur.Insn = insn
	r.cur.Trap = true
	r.cur.Intr = intr
	r.sink.Emit(r.cur)
}

// RetireHalt finalizes the in-progress record as a halt.
func (r *Recorder) RetireHalt() {
	if r.sink == nil {
		return
	}
	r.order++
	r.cur.Valid = true
	r.cur.Order = r.order
	r.cur.Halt = true
	r.sink.Emit(r.cur)
}
