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

// ChannelMode selects what a compare channel does when the cycle counter
// reaches the programmed compare value.
type ChannelMode uint32

// Compare channel modes we support
const (
	// ChannelDisabled turns the channel off
	ChannelDisabled ChannelMode = 0
	// ChannelToggle toggles the output pin and raises the event flag on every match
	ChannelToggle ChannelMode = 1
)

// Registers is the hardware access layer of the time stamping unit.
// Every method performs exactly one masked register access (plus the
// capture request for CycleCounter); no method keeps state of its own.
// Implementations: MMIO for real hardware, Simulator for tests and tooling.
type Registers interface {
	// CycleCounter issues a capture request and reads back the latched
	// value of the free-running cycle counter.
	CycleCounter() uint32
	// SetCycleCounter overwrites the free-running counter, used by settime.
	SetCycleCounter(value uint32)
	// SetIncrement programs the per-tick increment and the replacement
	// increment used once per correction period. Values are in nanoseconds
	// and are masked to the hardware field width.
	SetIncrement(base uint8, correction uint8)
	// SetCorrectionPeriod programs after how many timer ticks the
	// correction increment is used instead of the base one. Zero disables
	// frequency correction.
	SetCorrectionPeriod(cycles uint32)
	// SetCompare programs the compare value of a channel.
	SetCompare(channel int, value uint32)
	// SetChannelMode configures the output mode of a channel.
	SetChannelMode(channel int, mode ChannelMode)
	// ChannelEventPending reports whether the channel's compare-match flag is set.
	ChannelEventPending(channel int) bool
	// ClearChannelEvent acknowledges the compare-match flag. The flag is
	// write-1-to-clear and can be re-set by the hardware immediately, so
	// callers re-check ChannelEventPending after clearing.
	ClearChannelEvent(channel int)
}
