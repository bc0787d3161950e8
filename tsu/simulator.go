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
	"sync"
	"time"
)

// simChannels is how many compare channels the simulated unit has
const simChannels = 4

type simChannel struct {
	mode    ChannelMode
	compare uint32
	flag    bool
	// absolute positions (in counter nanoseconds since simulator start) at
	// which the comparator matched
	matches []uint64
}

// Simulator is a software model of the time stamping unit: a wrapping
// counter that advances by the programmed increments and compare channels
// that flag when the counter passes their target. Time only moves when the
// test calls Advance, which makes every scenario deterministic.
type Simulator struct {
	mu   sync.Mutex
	rate uint32
	mask uint32

	counter    uint32
	elapsed    uint64 // total counter nanoseconds since start
	base, corr uint8
	corrPeriod uint32
	countdown  uint64 // ticks until the next corrective tick
	channels   [simChannels]simChannel
}

// NewSimulator builds a unit with the given input clock rate and counter width.
func NewSimulator(rate uint32, bits uint32) *Simulator {
	if bits == 0 {
		bits = DefaultCounterBits
	}
	return &Simulator{
		rate: rate,
		mask: uint32(uint64(1)<<bits - 1),
	}
}

// Advance moves simulated time forward by d of real oscillator time.
// Call in steps below the wrap period, like real housekeeping would.
func (s *Simulator) Advance(d time.Duration) {
	s.AdvanceTicks(uint64(d.Nanoseconds()) * uint64(s.rate) / nsPerSec)
}

// AdvanceTicks moves simulated time forward by n oscillator ticks.
func (s *Simulator) AdvanceTicks(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		return
	}
	// every corrPeriod ticks one tick advances by the correction increment
	// instead of the base one
	var corrTicks uint64
	if s.corrPeriod > 0 {
		if s.countdown == 0 {
			s.countdown = uint64(s.corrPeriod)
		}
		if n >= s.countdown {
			corrTicks = 1 + (n-s.countdown)/uint64(s.corrPeriod)
			s.countdown = uint64(s.corrPeriod) - (n-s.countdown)%uint64(s.corrPeriod)
		} else {
			s.countdown -= n
		}
	}
	adv := (n-corrTicks)*uint64(s.base) + corrTicks*uint64(s.corr)

	before := s.counter
	for ch := range s.channels {
		c := &s.channels[ch]
		if c.mode != ChannelToggle {
			continue
		}
		distance := uint64((c.compare - before) & s.mask)
		if distance > 0 && distance <= adv {
			c.flag = true
			c.matches = append(c.matches, s.elapsed+distance)
		}
	}
	s.counter = uint32((uint64(before) + adv)) & s.mask
	s.elapsed += adv
}

// Matches returns the absolute counter-time positions at which the channel
// comparator fired.
func (s *Simulator) Matches(channel int) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint64, len(s.channels[channel].matches))
	copy(out, s.channels[channel].matches)
	return out
}

// CycleCounter implements Registers; the capture latch is instantaneous.
func (s *Simulator) CycleCounter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// SetCycleCounter implements Registers.
func (s *Simulator) SetCycleCounter(value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = value & s.mask
}

// SetIncrement implements Registers.
func (s *Simulator) SetIncrement(base uint8, correction uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base & incFieldWidth
	s.corr = correction & incFieldWidth
}

// SetCorrectionPeriod implements Registers.
func (s *Simulator) SetCorrectionPeriod(cycles uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrPeriod = cycles
	s.countdown = uint64(cycles)
}

// SetCompare implements Registers.
func (s *Simulator) SetCompare(channel int, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel].compare = value & s.mask
}

// SetChannelMode implements Registers.
func (s *Simulator) SetChannelMode(channel int, mode ChannelMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel].mode = mode
	if mode == ChannelDisabled {
		s.channels[channel].flag = false
	}
}

// ChannelEventPending implements Registers.
func (s *Simulator) ChannelEventPending(channel int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[channel].flag
}

// ClearChannelEvent implements Registers.
func (s *Simulator) ClearChannelEvent(channel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel].flag = false
}
