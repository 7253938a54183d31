package trap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rv32ucore/rv32ucore/trap"
)

func TestExceptionCausesAreDistinct(t *testing.T) {
	causes := []uint32{
		trap.InstructionAddressMisaligned,
		trap.IllegalInstruction,
		trap.Breakpoint,
		trap.LoadAddressMisaligned,
		trap.StoreAddressMisaligned,
		trap.EnvironmentCallFromMMode,
	}
	seen := map[uint32]bool{}
	for _, c := range causes {
		require.False(t, seen[c], "duplicate cause %d", c)
		seen[c] = true
	}
}

func TestMachineExternalInterruptHasInterruptBitSet(t *testing.T) {
	require.NotZero(t, trap.MachineExternalInterrupt&0x80000000)
	require.Equal(t, uint32(0x0B), trap.MachineExternalInterrupt&^uint32(0x80000000))
}
