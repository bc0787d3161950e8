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

const nsPerSec = 1000000000

// CorrectionState is the programmed frequency correction: every
// CorrectionPeriod timer ticks the counter advances by CorrectionIncrement
// nanoseconds instead of BaseIncrement. CorrectionPeriod of zero means no
// correction is applied.
type CorrectionState struct {
	BaseIncrement       uint8
	CorrectionIncrement uint8
	CorrectionPeriod    uint32
}

// CorrectionFor finds the correction state approximating a ppb frequency
// offset for a clock with the given base increment.
//
// We want extra/CorrectionPeriod ticks such that
// extra / (period * base) == ppb / 1e9, with extra between 1 and base
// (the correction field holds base±extra and is only twice as wide as the
// base increment field). Trials of extra are taken in increasing order and
// the first one yielding a period of at least one tick wins. If even
// extra == base cannot reach the requested offset, the correction saturates
// at (base*2, 1): double speed on every tick, the fastest slew the
// hardware can do.
func CorrectionFor(ppb int64, base uint8) CorrectionState {
	st := CorrectionState{BaseIncrement: base}
	if ppb == 0 || base == 0 {
		st.CorrectionIncrement = base
		return st
	}
	neg := ppb < 0
	if neg {
		ppb = -ppb
	}

	var extra uint8
	var period uint32
	lhs := uint64(nsPerSec)
	rhs := uint64(ppb) * uint64(base)
	for i := uint8(1); i != 0 && i <= base; i++ {
		if lhs >= rhs {
			extra = i
			period = uint32(lhs / rhs)
			break
		}
		lhs += nsPerSec
	}
	if extra == 0 {
		// requested offset is beyond what one extra nanosecond per tick
		// can express, clamp to the maximum correction rate
		extra = base
		period = 1
	}

	if neg {
		st.CorrectionIncrement = base - extra
	} else {
		st.CorrectionIncrement = base + extra
	}
	st.CorrectionPeriod = period
	return st
}

// program writes the correction state into the hardware and is a no-op on
// the accumulated clock itself; callers re-read the timecounter right after
// so the rate change does not tear the nanosecond accumulation.
func (st CorrectionState) program(regs Registers) {
	regs.SetIncrement(st.BaseIncrement, st.CorrectionIncrement)
	regs.SetCorrectionPeriod(st.CorrectionPeriod)
}
