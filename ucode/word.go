// Package ucode implements the horizontal microcode store that drives the
// RV32I_Zicsr datapath: a 256-entry, ~48-bit-wide control word store
// addressed by an 8-bit micro-PC.
package ucode

// JmpType selects how the sequencer picks the next micro-PC.
type JmpType uint8

const (
	JmpCont       JmpType = iota // next = upc + 1
	JmpMap                       // next = mapping table result, unless test
	JmpDirect                    // next = target if test, else upc + 1
	JmpDirectZero                // next = target if test, else 0
)

// CondTest selects the single boolean the sequencer tests.
type CondTest uint8

const (
	// CondException is only meaningful on the dispatch tick: illegal
	// instruction (latched at decode) or a pending enabled external
	// interrupt, sampled strictly between instructions.
	CondException CondTest = iota
	CondALUZero
	CondMemValid
	CondShiftCountZero
	// CondMisaligned checks the address about to be committed this tick:
	// if PCAction is PCLoadALUO/PCLoadAdr, the prospective PC value (4-byte
	// aligned required); otherwise the parked bus-address register against
	// the current word's MemSel width.
	CondMisaligned
	CondTrue
)

// ShiftCtl drives the dedicated shift-count-down counter used by the
// SLL/SRL/SRA/SLLI/SRLI/SRAI 1-bit-at-a-time loops. It is kept separate
// from the ALU's own A/B latches because the loop needs two independent
// running values at once — the partial shift result and the remaining
// count — and the ALU only has one output per tick.
type ShiftCtl uint8

const (
	ShiftNone ShiftCtl = iota
	ShiftLoad              // counter := alu.O & 0x1F
	ShiftDec               // counter := counter - 1
)

// PCAction controls the program-counter register each tick.
type PCAction uint8

const (
	PCHold PCAction = iota
	PCInc
	PCLoadALUO
	PCLoadAdr // PC := the parked bus-address latch (JALR's two-register shuffle)
)

// ASrc selects the source latched into the ALU's A operand.
type ASrc uint8

const (
	ASrcGP ASrc = iota
	ASrcImm
	ASrcALUO
	ASrcZero
	ASrcFour
	ASrcThirtyOne
	ASrcZimm // zero-extended 5-bit rs1 field, for the CSRxxI immediate forms
	ASrcCSR  // current value of the addressed CSR
)

// BSrc selects the source latched into the ALU's B operand.
type BSrc uint8

const (
	BSrcGP BSrc = iota
	BSrcPC
	BSrcImm
	BSrcOne
	BSrcDatR
	BSrcCSR
	BSrcMCauseLatch
	BSrcZimm
	BSrcZero
)

// AluOp selects the ALU's combinational function.
type AluOp uint8

const (
	AluAdd AluOp = iota
	AluSub
	AluAnd
	AluOr
	AluXor
	AluAndNot // x AND (NOT y), used to synthesize CSRRC/CSRRCI
	AluShl1
	AluShr1L
	AluShr1A
	AluCmpLTU
)

// AluIMod modifies the ALU's inputs before the op is applied.
type AluIMod uint8

const (
	AluIModNone AluIMod = iota
	AluIModInvertMSB
)

// AluOMod modifies the ALU's output after the op is applied.
type AluOMod uint8

const (
	AluOModNone AluOMod = iota
	AluOModInvertLSB
	AluOModClearLSB
)

// RegRSel selects which decoded field addresses the register-file read port.
type RegRSel uint8

const (
	RegRSelRs1 RegRSel = iota
	RegRSelRs2
)

// RegWSel selects which decoded field addresses the register-file write port.
type RegWSel uint8

const (
	RegWSelRd RegWSel = iota
	RegWSelZero
)

// CSROp selects the CSR-port operation. Modeled as a sum type rather than
// two independent flags: it is mutually exclusive with reg_write in a
// given tick.
type CSROp uint8

const (
	CSROpNone CSROp = iota
	CSROpRead
	CSROpWrite
)

// CSRSel chooses where the CSR number comes from.
type CSRSel uint8

const (
	CSRSelInsn CSRSel = iota
	CSRSelMicroTarget
)

// MemSel selects the bus access width.
type MemSel uint8

const (
	MemSelAuto MemSel = iota
	MemSelByte
	MemSelHalf
	MemSelWord
)

// MemExtend selects sign or zero extension of a load result.
type MemExtend uint8

const (
	MemExtendZero MemExtend = iota
	MemExtendSign
)

// ExceptCtl drives the exception router / trap state machine.
type ExceptCtl uint8

const (
	ExceptNone ExceptCtl = iota
	ExceptLatchDecoderCause
	ExceptLatchJumpTargetCause
	ExceptLatchLoadAddressCause
	ExceptLatchStoreAddressCause
	ExceptEnterTrap
	ExceptLeaveTrap
)

// Word is one horizontal microinstruction: a packed immutable value with
// one field per control signal. Values are built once at store-construction
// time and never mutated afterwards.
type Word struct {
	Target      uint8
	JmpType     JmpType
	CondTest    CondTest
	InvertTest  bool
	PCAction    PCAction
	LatchA      bool
	LatchB      bool
	ASrc        ASrc
	BSrc        BSrc
	AluOp       AluOp
	AluIMod     AluIMod
	AluOMod     AluOMod
	RegRead     bool
	RegWrite    bool
	RegRSel     RegRSel
	RegWSel     RegWSel
	CSROp       CSROp
	CSRSel      CSRSel
	CSRNum      uint16 // target CSR address when CSRSel == CSRSelMicroTarget
	MemReq      bool
	WriteMem    bool
	InsnFetch   bool
	MemSel      MemSel
	MemExtend   MemExtend
	LatchAdr    bool
	LatchData   bool
	ExceptCtl   ExceptCtl
	ShiftCtl    ShiftCtl
}
