// Package trap defines the cause codes this core can raise, per the
// RISC-V privileged specification's machine-mode exception and
// interrupt numbering.
package trap

// Exception causes, mcause with the interrupt bit (31) clear.
const (
	InstructionAddressMisaligned uint32 = 0
	IllegalInstruction           uint32 = 2
	Breakpoint                   uint32 = 3
	LoadAddressMisaligned        uint32 = 4
	StoreAddressMisaligned       uint32 = 6
	EnvironmentCallFromMMode     uint32 = 11
)

// MachineExternalInterrupt is mcause with the interrupt bit set, for the
// single interrupt source this core supports.
const MachineExternalInterrupt uint32 = 0x8000000B
