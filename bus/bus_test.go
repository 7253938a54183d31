package bus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rv32ucore/rv32ucore/bus"
	"github.com/rv32ucore/rv32ucore/event"
)

func TestAligned(t *testing.T) {
	require.True(t, bus.Aligned(0x1000, bus.Word))
	require.False(t, bus.Aligned(0x1001, bus.Word))
	require.True(t, bus.Aligned(0x1002, bus.Half))
	require.False(t, bus.Aligned(0x1001, bus.Half))
	require.True(t, bus.Aligned(0x1001, bus.Byte))
}

func TestRAMWriteThenReadWord(t *testing.T) {
	ram := bus.NewRAM(64, 0)
	var sched event.Queue
	var got bus.Response
	ram.Submit(&sched, bus.Request{Addr: 4, Write: true, Width: bus.Word, WData: 0xCAFEBABE}, func(r bus.Response) {})
	ram.Submit(&sched, bus.Request{Addr: 4, Write: false, Width: bus.Word}, func(r bus.Response) { got = r })
	require.Equal(t, uint32(0xCAFEBABE), got.RData)
}

func TestRAMByteAndHalfWidthAccess(t *testing.T) {
	ram := bus.NewRAM(64, 0)
	var sched event.Queue
	ram.Submit(&sched, bus.Request{Addr: 8, Write: true, Width: bus.Word, WData: 0x11223344}, func(bus.Response) {})

	var byteResp, halfResp bus.Response
	ram.Submit(&sched, bus.Request{Addr: 8, Write: false, Width: bus.Byte}, func(r bus.Response) { byteResp = r })
	require.Equal(t, uint32(0x44), byteResp.RData)

	ram.Submit(&sched, bus.Request{Addr: 10, Write: false, Width: bus.Half}, func(r bus.Response) { halfResp = r })
	require.Equal(t, uint32(0x1122), halfResp.RData)
}

func TestRAMLoad(t *testing.T) {
	ram := bus.NewRAM(16, 0)
	ram.Load([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	var sched event.Queue
	var got bus.Response
	ram.Submit(&sched, bus.Request{Addr: 0, Write: false, Width: bus.Word}, func(r bus.Response) { got = r })
	require.Equal(t, uint32(0xEFBEADDE), got.RData)
}

func TestMasterBeginIsNoopWhilePending(t *testing.T) {
	ram := bus.NewRAM(16, 2)
	var sched event.Queue
	m := bus.NewMaster(ram, &sched)

	m.Begin(bus.Request{Addr: 0, Write: true, Width: bus.Word, WData: 1})
	require.False(t, m.Valid())

	// Re-asserting the same request while pending must not start a second
	// transaction, matching Wishbone's hold-until-ACK rule.
	m.Begin(bus.Request{Addr: 0, Write: true, Width: bus.Word, WData: 2})
	sched.Advance(2)
	require.True(t, m.Valid())
}

func TestMasterResultClearsState(t *testing.T) {
	ram := bus.NewRAM(16, 0)
	var sched event.Queue
	m := bus.NewMaster(ram, &sched)

	m.Begin(bus.Request{Addr: 0, Write: true, Width: bus.Word, WData: 0x42})
	require.True(t, m.Valid())
	m.Result()
	require.False(t, m.Valid())

	m.Begin(bus.Request{Addr: 0, Write: false, Width: bus.Word})
	require.True(t, m.Valid())
	require.Equal(t, uint32(0x42), m.Result().RData)
}

func TestMasterRespectsLatency(t *testing.T) {
	ram := bus.NewRAM(16, 3)
	var sched event.Queue
	m := bus.NewMaster(ram, &sched)

	m.Begin(bus.Request{Addr: 0, Write: false, Width: bus.Word})
	require.False(t, m.Valid())
	sched.Advance(1)
	require.False(t, m.Valid())
	sched.Advance(1)
	require.False(t, m.Valid())
	sched.Advance(1)
	require.True(t, m.Valid())
}
