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
	"time"
)

// MemIO is a 32-bit register window. Offsets are in bytes from the start
// of the timer block.
type MemIO interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)
}

// Register map of the timer block, from the TSU section of the controller
// reference manual. All accesses are 32 bit.
const (
	regControl    uint32 = 0x00 // timer control
	regValue      uint32 = 0x04 // counter value, latched by a capture request
	regPeriod     uint32 = 0x08 // counter wrap period
	regCorrection uint32 = 0x0c // correction counter wrap
	regIncrement  uint32 = 0x10 // timer increments
	// per-channel control/status and compare registers, 8 bytes apart
	regChannelBase   uint32 = 0x20
	regChannelStride uint32 = 0x08
)

// Timer control register bits
const (
	ctrlEnable    uint32 = 1 << 0  // enable the counter
	ctrlPinPeriod uint32 = 1 << 7  // enable periodic pin events
	ctrlRestart   uint32 = 1 << 9  // reset the counter
	ctrlCapture   uint32 = 1 << 11 // latch the counter into the value register
)

// Increment register fields: [6:0] base increment, [14:8] correction increment
const (
	incBaseMask   uint32 = 0x0000007f
	incCorrShift  uint32 = 8
	incCorrMask   uint32 = 0x00007f00
	incFieldWidth uint8  = 0x7f
)

// Channel control/status register bits
const (
	chDMAEnable uint32 = 1 << 0 // raise a DMA request instead of an interrupt
	chModeShift uint32 = 2
	chModeMask  uint32 = 0xf << 2
	chIRQEnable uint32 = 1 << 6 // raise an interrupt on compare match
	chEventFlag uint32 = 1 << 7 // compare match happened, write 1 to clear

	chModeToggle uint32 = 0x5 // toggle output on compare
)

// MMIO implements Registers on top of a mapped register window.
type MMIO struct {
	io MemIO
	// captureDelay gives the latch time to settle before the value register
	// is read back. Needed on controller revisions where a back-to-back
	// capture+read returns a stale value.
	captureDelay time.Duration
}

// NewMMIO wraps a register window. captureDelay may be zero on hardware
// revisions with a working capture latch.
func NewMMIO(io MemIO, captureDelay time.Duration) *MMIO {
	return &MMIO{io: io, captureDelay: captureDelay}
}

// EnableTimer starts or stops the free-running counter and periodic pin events.
func (m *MMIO) EnableTimer(on bool) {
	if on {
		m.io.Write32(regControl, ctrlEnable|ctrlPinPeriod)
		return
	}
	m.io.Write32(regControl, 0)
}

func (m *MMIO) channelReg(channel int) uint32 {
	return regChannelBase + uint32(channel)*regChannelStride
}

// CycleCounter issues a capture request and reads the latched counter value.
func (m *MMIO) CycleCounter() uint32 {
	ctrl := m.io.Read32(regControl)
	m.io.Write32(regControl, ctrl|ctrlCapture)
	if m.captureDelay > 0 {
		time.Sleep(m.captureDelay)
	}
	return m.io.Read32(regValue)
}

// SetCycleCounter overwrites the free-running counter.
func (m *MMIO) SetCycleCounter(value uint32) {
	m.io.Write32(regValue, value)
}

// SetIncrement programs base and correction increments.
func (m *MMIO) SetIncrement(base uint8, correction uint8) {
	v := uint32(base) & incBaseMask
	v |= (uint32(correction) << incCorrShift) & incCorrMask
	m.io.Write32(regIncrement, v)
}

// SetCorrectionPeriod programs the correction counter wrap.
func (m *MMIO) SetCorrectionPeriod(cycles uint32) {
	m.io.Write32(regCorrection, cycles)
}

// SetCompare programs the channel compare value.
func (m *MMIO) SetCompare(channel int, value uint32) {
	m.io.Write32(m.channelReg(channel)+4, value)
}

// SetChannelMode configures the channel output mode.
func (m *MMIO) SetChannelMode(channel int, mode ChannelMode) {
	reg := m.channelReg(channel)
	switch mode {
	case ChannelToggle:
		// writing the event flag bit also clears a stale match
		v := chEventFlag | chIRQEnable | chModeToggle<<chModeShift
		m.io.Write32(reg, v)
	default:
		m.io.Write32(reg, 0)
	}
}

// ChannelEventPending reports the compare-match flag.
func (m *MMIO) ChannelEventPending(channel int) bool {
	return m.io.Read32(m.channelReg(channel))&chEventFlag != 0
}

// ClearChannelEvent acknowledges the compare-match flag, preserving the
// channel configuration bits.
func (m *MMIO) ClearChannelEvent(channel int) {
	reg := m.channelReg(channel)
	v := m.io.Read32(reg)
	m.io.Write32(reg, v|chEventFlag)
}
