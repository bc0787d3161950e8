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
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/opennic/time/timestamp"
)

// Errors returned by the clock API surface
var (
	// ErrClockOff means the hardware clock is gated off; retry once it is powered
	ErrClockOff = errors.New("hardware clock is not running")
	// ErrUnsupportedFlags means the periodic output request carries flags we don't implement
	ErrUnsupportedFlags = errors.New("unsupported periodic output flags")
	// ErrWrongChannel means the requested channel is not wired to the output pin
	ErrWrongChannel = errors.New("periodic output is not available on this channel")
	// ErrPeriodTooLong means the period cannot be expressed in the counter width
	ErrPeriodTooLong = errors.New("periodic output period exceeds counter range")
	// ErrStartTooSoon means the start time leaves no margin to program the comparator
	ErrStartTooSoon = errors.New("periodic output start time is too close to current time")
)

const (
	// DefaultCounterBits is the cycle counter width of current controller revisions
	DefaultCounterBits = 31
	// counterShift expresses the identity cycle-to-nanosecond scale at full
	// precision: the counter advances in nanosecond units, the increment
	// registers being programmed in ns per tick.
	counterShift = 31
	// startMargin is the minimum lead time for a programmed output start.
	// Anything closer risks the counter passing the compare value before
	// the register write lands.
	startMargin = 100 * time.Millisecond
	// ackRetryLimit bounds the write/verify loop acknowledging a compare event
	ackRetryLimit = 100
)

// Config describes the time stamping unit the engine drives.
type Config struct {
	// ClockRate is the frequency the counter ticks at, in Hz. Must divide 1e9.
	ClockRate uint32
	// CounterBits is the cycle counter width. Defaults to DefaultCounterBits.
	CounterBits uint32
	// Channel is the compare channel wired to the pulse output pin.
	Channel int
	// OnPulse, when set, is invoked after every acknowledged compare event.
	// When nil the engine still programs the output but nobody hears about
	// the pulses; this is the degraded mode used when no interrupt line
	// could be attached.
	OnPulse func()
	// Timers schedules the long-range periodic output path.
	// Defaults to SystemTimers.
	Timers Timers
	// Now is the wall clock used to seed the engine clock and to measure
	// reset downtime. Defaults to time.Now.
	Now func() time.Time
}

// Engine is the clock and periodic-output engine of one NIC port's time
// stamping unit. All mutable state is owned by the engine and serialized on
// a single lock shared with the interrupt path; a separate coarse gate
// tracks whether the hardware clock is powered at all.
type Engine struct {
	regs    Registers
	cfg     Config
	mask    uint32
	wrap    uint64 // counter range in nanoseconds
	baseInc uint8
	timers  Timers
	now     func() time.Time

	// clkMu guards clkOn and is taken before mu. It is a sleepable gate:
	// API calls check it first and fail with ErrClockOff without touching
	// hardware registers.
	clkMu sync.Mutex
	clkOn bool

	// mu serializes the timecounter, correction and output state between
	// the clock API, the housekeeping poll, the staging timer and the
	// interrupt path. Never held across a blocking call or the pulse
	// callback.
	mu           sync.Mutex
	tc           timecounter
	corr         CorrectionState
	out          outputState
	outSeq       uint64 // bumped whenever out is replaced, invalidates staging callbacks
	tsCfg        timestamp.Config
	warnedNoSink bool
}

type outputMode uint8

const (
	outputOff outputMode = iota
	outputPPS
	outputPerout
)

// outputState is the pulse channel state shared with the reload handler.
type outputState struct {
	mode    outputMode
	enabled bool   // channel armed in hardware
	reload  uint32 // cycles between compare reloads
	next    uint32 // staged compare value the reload handler writes next
	stop    func() // cancels the long-range staging timer
}

// New programs the unit to its nominal rate, seeds the clock from the wall
// clock and returns a running engine.
func New(regs Registers, cfg Config) (*Engine, error) {
	if cfg.ClockRate == 0 || nsPerSec%cfg.ClockRate != 0 {
		return nil, fmt.Errorf("clock rate %d Hz does not divide a second evenly", cfg.ClockRate)
	}
	base := nsPerSec / cfg.ClockRate
	// saturated slew programs base*2 into the correction field, which is as
	// wide as the base field, so only half the field width is usable
	if base > uint32(incFieldWidth)/2 {
		return nil, fmt.Errorf("clock rate %d Hz needs a %dns increment, too wide to double in the correction field", cfg.ClockRate, base)
	}
	bits := cfg.CounterBits
	if bits == 0 {
		bits = DefaultCounterBits
	}
	if bits > 32 {
		return nil, fmt.Errorf("counter width %d exceeds the 32-bit register", bits)
	}
	e := &Engine{
		regs:    regs,
		cfg:     cfg,
		mask:    uint32(uint64(1)<<bits - 1),
		wrap:    uint64(1) << bits,
		baseInc: uint8(base),
		timers:  cfg.Timers,
		now:     cfg.Now,
	}
	if e.timers == nil {
		e.timers = SystemTimers{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.tc = timecounter{
		regs:  regs,
		mask:  e.mask,
		mult:  1 << counterShift,
		shift: counterShift,
	}
	e.corr = CorrectionState{BaseIncrement: e.baseInc, CorrectionIncrement: e.baseInc}
	e.corr.program(regs)

	ns := uint64(e.now().UnixNano())
	regs.SetCycleCounter(uint32(ns) & e.mask)
	e.tc.init(ns)
	e.clkOn = true
	return e, nil
}

// WrapPeriod returns how long the cycle counter takes to wrap. Housekeeping
// must call Poll at least twice per this interval.
func (e *Engine) WrapPeriod() time.Duration {
	return time.Duration(e.wrap)
}

// Correction returns the currently programmed frequency correction.
func (e *Engine) Correction() CorrectionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.corr
}

// SetRunning flips the clock gate. While the gate is off, Time, SetTime and
// output enabling fail with ErrClockOff and no registers are touched.
func (e *Engine) SetRunning(on bool) {
	e.clkMu.Lock()
	e.clkOn = on
	e.clkMu.Unlock()
}

// Close disables the pulse output, cancels any staged programming and gates
// the clock off.
func (e *Engine) Close() {
	e.DisableOutput()
	e.SetRunning(false)
}

// Time returns the current value of the monotonic hardware clock.
func (e *Engine) Time() (time.Time, error) {
	e.clkMu.Lock()
	defer e.clkMu.Unlock()
	if !e.clkOn {
		return time.Time{}, ErrClockOff
	}
	e.mu.Lock()
	ns := e.tc.read()
	e.mu.Unlock()
	return time.Unix(0, int64(ns)), nil
}

// SetTime rebases the clock to t. The hardware counter is rewritten so the
// raw cycle value mirrors the time modulo the counter width.
func (e *Engine) SetTime(t time.Time) error {
	e.clkMu.Lock()
	defer e.clkMu.Unlock()
	if !e.clkOn {
		return ErrClockOff
	}
	ns := uint64(t.UnixNano())
	e.mu.Lock()
	e.regs.SetCycleCounter(uint32(ns) & e.mask)
	e.tc.init(ns)
	e.mu.Unlock()
	return nil
}

// AdjustTime shifts the clock by delta without touching the hardware
// counter or the programmed rate.
func (e *Engine) AdjustTime(delta time.Duration) error {
	e.mu.Lock()
	e.tc.adjust(delta.Nanoseconds())
	e.mu.Unlock()
	return nil
}

// AdjustFrequency applies a frequency offset in parts per billion by
// reprogramming the correction increment and period. Zero restores the
// nominal rate.
func (e *Engine) AdjustFrequency(ppb int64) error {
	e.mu.Lock()
	st := CorrectionFor(ppb, e.baseInc)
	st.program(e.regs)
	e.corr = st
	// fold in cycles accumulated at the old rate so the change lands
	// without a discontinuity
	e.tc.read()
	e.mu.Unlock()
	log.Debugf("programmed %+d ppb as increment %d every %d cycles", ppb, st.CorrectionIncrement, st.CorrectionPeriod)
	return nil
}

// Poll folds elapsed cycles into the clock. The housekeeping task must call
// it at least once per half wrap period (about once a second on a 31-bit
// counter) or wrap detection silently fails and the clock loses time.
func (e *Engine) Poll() {
	e.clkMu.Lock()
	defer e.clkMu.Unlock()
	if !e.clkOn {
		return
	}
	e.mu.Lock()
	e.tc.read()
	e.mu.Unlock()
}

// SavedState captures what is needed to carry the clock across a hardware
// reset without a discontinuity beyond the reset duration itself.
type SavedState struct {
	PPSEnabled bool
	ClockNS    uint64
	WallNS     uint64
	Correction CorrectionState
}

// Snapshot records the clock state; call strictly before resetting the
// hardware.
func (e *Engine) Snapshot() SavedState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SavedState{
		PPSEnabled: e.out.enabled && e.out.mode == outputPPS,
		ClockNS:    e.tc.read(),
		WallNS:     uint64(e.now().UnixNano()),
		Correction: e.corr,
	}
}

// Restore rebuilds a continuous clock from a snapshot; call strictly after
// the hardware reset, before any other API call. Reset downtime is measured
// on the wall clock and added to the saved reading, the correction
// registers are reprogrammed, and free-running PPS is re-enabled if it was
// on.
func (e *Engine) Restore(s SavedState) error {
	e.mu.Lock()
	elapsed := uint64(e.now().UnixNano()) - s.WallNS
	ns := s.ClockNS + elapsed
	s.Correction.program(e.regs)
	e.corr = s.Correction
	e.regs.SetCycleCounter(uint32(ns) & e.mask)
	e.tc.init(ns)
	// the reset wiped the comparator, so whatever output state was armed
	// before is gone; drop it or the re-enable below would be treated as
	// already done
	stop := e.out.stop
	e.out = outputState{}
	e.outSeq++
	e.mu.Unlock()
	if stop != nil {
		stop()
	}
	if s.PPSEnabled {
		return e.EnablePPS(true)
	}
	return nil
}

// SetTimestampConfig stores the packet timestamping configuration and
// returns what the hardware will actually do, which may be broader than
// requested.
func (e *Engine) SetTimestampConfig(c timestamp.Config) (timestamp.Config, error) {
	applied, err := c.Normalize()
	if err != nil {
		return c, err
	}
	e.mu.Lock()
	e.tsCfg = applied
	e.mu.Unlock()
	return applied, nil
}

// TimestampConfig returns the current packet timestamping configuration.
func (e *Engine) TimestampConfig() timestamp.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tsCfg
}
