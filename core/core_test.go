package core_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rv32ucore/rv32ucore/bus"
	"github.com/rv32ucore/rv32ucore/core"
	"github.com/rv32ucore/rv32ucore/cpu"
	"github.com/rv32ucore/rv32ucore/event"
	"github.com/rv32ucore/rv32ucore/ucode"
)

// loopProgram increments x1 forever: addi x1,x1,1 ; jal x0,-4.
func loopProgram() []byte {
	addi := uint32(1)<<20 | uint32(1)<<15 | uint32(1)<<7 | 0x13
	// jal x0, -4: imm = -4 encoded per J-type.
	u := uint32(int32(-4))
	jalWord := ((u>>20)&1)<<31 | ((u>>1)&0x3FF)<<21 | ((u>>11)&1)<<20 | ((u>>12)&0xFF)<<12 | 0x6F

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], addi)
	binary.LittleEndian.PutUint32(buf[4:], jalWord)
	return buf
}

func newTestCore(t *testing.T) (*cpu.CPU, *core.Core) {
	t.Helper()
	store, err := ucode.Image()
	require.NoError(t, err)

	ram := bus.NewRAM(4096, 0)
	ram.Load(loopProgram())
	sched := &event.Queue{}

	c := cpu.New(store, ram, sched, nil, nil)
	co := core.New(c, nil)
	return c, co
}

func TestRunAdvancesAndStopHalts(t *testing.T) {
	c, co := newTestCore(t)

	go co.Start()
	co.Run()

	time.Sleep(5 * time.Millisecond)
	co.Stop()

	require.Greater(t, c.Reg(1), uint32(0))
}

func TestHaltStopsProgress(t *testing.T) {
	c, co := newTestCore(t)

	go co.Start()
	co.Run()
	time.Sleep(5 * time.Millisecond)
	co.Halt()
	time.Sleep(2 * time.Millisecond)

	stalled := c.Reg(1)
	time.Sleep(5 * time.Millisecond)
	co.Stop()

	require.Equal(t, stalled, c.Reg(1))
}

func TestResetReturnsCPUToPowerOnState(t *testing.T) {
	c, co := newTestCore(t)

	go co.Start()
	co.Run()
	time.Sleep(5 * time.Millisecond)
	co.Reset()
	time.Sleep(2 * time.Millisecond)
	co.Stop()

	require.Zero(t, c.PC())
	require.Zero(t, c.Reg(1))
}

func TestSetIRQForwardsToCPU(t *testing.T) {
	c, co := newTestCore(t)

	go co.Start()
	co.SetIRQ(true)
	time.Sleep(2 * time.Millisecond)
	co.Stop()

	v, ok := c.CSR(0x344) // mip
	require.True(t, ok)
	require.NotZero(t, v&(1<<11)) // MEIP bit reflects the forwarded IRQ line.
}
