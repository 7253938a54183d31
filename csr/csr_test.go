package csr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rv32ucore/rv32ucore/csr"
)

func TestResetHardwiresMPP(t *testing.T) {
	var s csr.Store
	s.Reset()
	v, ok := s.Read(csr.Mstatus)
	require.True(t, ok)
	require.Equal(t, uint32(0b11)<<11, v)
}

func TestMtvecLowBitsAlwaysZero(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.True(t, s.Write(csr.Mtvec, 0x8000_0003))
	require.Equal(t, uint32(0x8000_0000), s.Mtvec())
	v, ok := s.Read(csr.Mtvec)
	require.True(t, ok)
	require.Equal(t, uint32(0x8000_0000), v)
}

func TestMepcLowBitsAlwaysZero(t *testing.T) {
	var s csr.Store
	s.Reset()
	s.Write(csr.Mepc, 0x1003)
	v, _ := s.Read(csr.Mepc)
	require.Equal(t, uint32(0x1000), v)
}

func TestUnimplementedCSRIsIllegal(t *testing.T) {
	var s csr.Store
	s.Reset()
	_, ok := s.Read(0x7C0)
	require.False(t, ok)
	require.False(t, s.Write(0x7C0, 1))
}

func TestReadOnlyIdentificationCSRsRejectWrites(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.False(t, s.Write(csr.Mvendorid, 1))
	require.False(t, s.Write(csr.Marchid, 1))
	require.False(t, s.Write(csr.Mhartid, 1))
}

func TestToleratedReadOnlyZeroCSRsAcceptWritesButIgnoreThem(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.True(t, s.Write(csr.Misa, 0xFFFFFFFF))
	v, ok := s.Read(csr.Misa)
	require.True(t, ok)
	require.Zero(t, v)
}

func TestHPMCounterAndEventRangesAreToleratedZero(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.True(t, s.Write(0xB10, 5))
	v, ok := s.Read(0xB10)
	require.True(t, ok)
	require.Zero(t, v)

	require.True(t, s.Write(0x330, 5))
	v, ok = s.Read(0x330)
	require.True(t, ok)
	require.Zero(t, v)
}

func TestMipIsExternallyDrivenNotSoftwareWritable(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.True(t, s.Write(csr.Mip, 0xFFFFFFFF))
	v, _ := s.Read(csr.Mip)
	require.Zero(t, v)

	s.SetExternalIRQ(true)
	v, _ = s.Read(csr.Mip)
	require.NotZero(t, v)
	require.True(t, s.MEIP())

	s.SetExternalIRQ(false)
	require.False(t, s.MEIP())
}

func TestMieAndMstatusEnableBits(t *testing.T) {
	var s csr.Store
	s.Reset()
	require.False(t, s.MIE())
	require.False(t, s.MEIE())

	s.Write(csr.Mstatus, 1<<3)
	require.True(t, s.MIE())

	s.Write(csr.Mie, 1<<11)
	require.True(t, s.MEIE())
}

func TestEnterTrapSavesAndClearsMIE(t *testing.T) {
	var s csr.Store
	s.Reset()
	s.Write(csr.Mstatus, 1<<3) // MIE=1
	s.EnterTrap()
	require.False(t, s.MIE())

	v, _ := s.Read(csr.Mstatus)
	require.NotZero(t, v&(1<<7)) // MPIE set from the saved MIE
}

func TestLeaveTrapRestoresMIEFromMPIE(t *testing.T) {
	var s csr.Store
	s.Reset()
	s.Write(csr.Mstatus, 1<<3) // MIE=1
	s.EnterTrap()
	require.False(t, s.MIE())

	s.LeaveTrap()
	require.True(t, s.MIE())
}
