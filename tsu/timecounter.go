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

// timecounter turns the narrow wrapping cycle counter into a 64-bit
// monotonic nanosecond clock. Deltas between reads are computed modulo the
// counter width, so it must be read at least once per half wrap period or
// an overflow goes unnoticed and the clock silently loses a full wrap.
// All methods must be called with the engine lock held.
type timecounter struct {
	regs  Registers
	mask  uint32
	mult  uint32
	shift uint32

	lastCycle uint32
	nsec      uint64
}

// read folds cycles elapsed since the previous read into the accumulated
// nanosecond count and returns it.
func (tc *timecounter) read() uint64 {
	raw := tc.regs.CycleCounter()
	delta := (raw - tc.lastCycle) & tc.mask
	tc.lastCycle = raw
	tc.nsec += uint64(delta) * uint64(tc.mult) >> tc.shift
	return tc.nsec
}

// init restarts the clock at ns, baselined against the current raw counter.
func (tc *timecounter) init(ns uint64) {
	tc.lastCycle = tc.regs.CycleCounter()
	tc.nsec = ns
}

// adjust folds in cycles elapsed so far, then shifts the accumulated count
// by delta. The hardware counter is not touched.
func (tc *timecounter) adjust(delta int64) {
	tc.read()
	tc.nsec = uint64(int64(tc.nsec) + delta)
}
