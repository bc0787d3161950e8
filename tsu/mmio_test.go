/*
Copyright (c) The OpenNIC Project and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tsu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeMemIO is a register window backed by a map, remembering write order
type fakeMemIO struct {
	regs   map[uint32]uint32
	writes []uint32
}

func newFakeMemIO() *fakeMemIO {
	return &fakeMemIO{regs: map[uint32]uint32{}}
}

func (f *fakeMemIO) Read32(offset uint32) uint32 {
	return f.regs[offset]
}

func (f *fakeMemIO) Write32(offset uint32, value uint32) {
	f.regs[offset] = value
	f.writes = append(f.writes, offset)
}

func TestMMIOCycleCounterCapture(t *testing.T) {
	io := newFakeMemIO()
	io.regs[regControl] = ctrlEnable
	io.regs[regValue] = 0x1234567
	m := NewMMIO(io, 0)

	require.Equal(t, uint32(0x1234567), m.CycleCounter())
	// the capture request must land before the value read, preserving the
	// other control bits
	require.Equal(t, []uint32{regControl}, io.writes)
	require.Equal(t, ctrlEnable|ctrlCapture, io.regs[regControl])
}

func TestMMIOIncrementPacking(t *testing.T) {
	io := newFakeMemIO()
	m := NewMMIO(io, 0)

	m.SetIncrement(8, 9)
	require.Equal(t, uint32(8)|uint32(9)<<incCorrShift, io.regs[regIncrement])

	// values are masked to the field width
	m.SetIncrement(0xff, 0xff)
	require.Equal(t, incBaseMask|incCorrMask, io.regs[regIncrement])
}

func TestMMIOChannelRegisters(t *testing.T) {
	io := newFakeMemIO()
	m := NewMMIO(io, 0)

	m.SetCompare(1, 0xC0FFEE)
	require.Equal(t, uint32(0xC0FFEE), io.regs[regChannelBase+regChannelStride+4])

	m.SetChannelMode(1, ChannelToggle)
	ctrl := io.regs[regChannelBase+regChannelStride]
	require.Equal(t, chEventFlag|chIRQEnable|chModeToggle<<chModeShift, ctrl)
	require.Zero(t, ctrl&chDMAEnable)

	m.SetChannelMode(1, ChannelDisabled)
	require.Zero(t, io.regs[regChannelBase+regChannelStride])
}

func TestMMIOEventFlag(t *testing.T) {
	io := newFakeMemIO()
	m := NewMMIO(io, 0)
	ch := regChannelBase

	io.regs[ch] = chIRQEnable | chModeToggle<<chModeShift
	require.False(t, m.ChannelEventPending(0))

	io.regs[ch] |= chEventFlag
	require.True(t, m.ChannelEventPending(0))

	// the acknowledge write keeps the configuration bits
	m.ClearChannelEvent(0)
	require.Equal(t, chEventFlag|chIRQEnable|chModeToggle<<chModeShift, io.regs[ch])
}

func TestMMIOEnableTimer(t *testing.T) {
	io := newFakeMemIO()
	m := NewMMIO(io, 0)

	m.EnableTimer(true)
	require.Equal(t, ctrlEnable|ctrlPinPeriod, io.regs[regControl])
	m.EnableTimer(false)
	require.Zero(t, io.regs[regControl])
}
