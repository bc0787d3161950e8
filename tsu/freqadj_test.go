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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCorrectionFor(t *testing.T) {
	tests := []struct {
		ppb  int64
		base uint8
		want CorrectionState
	}{
		// zero is nominal rate, no correction
		{0, 8, CorrectionState{8, 8, 0}},
		// 1 ppb: one extra nanosecond every 125M cycles
		{1, 8, CorrectionState{8, 9, 125000000}},
		{1000, 8, CorrectionState{8, 9, 125000}},
		{-1000, 8, CorrectionState{8, 7, 125000}},
		// large offsets need more than one extra ns per correction
		{200000000, 8, CorrectionState{8, 10, 1}},
		{500000000, 8, CorrectionState{8, 12, 1}},
		// beyond what the search bound reaches: saturate at double speed
		{2000000000, 8, CorrectionState{8, 16, 1}},
		{-2000000000, 8, CorrectionState{8, 0, 1}},
		// a 1 GHz counter with 1ns increments
		{1000, 1, CorrectionState{1, 2, 1000000}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dppb_base%d", tt.ppb, tt.base), func(t *testing.T) {
			require.Equal(t, tt.want, CorrectionFor(tt.ppb, tt.base))
		})
	}
}

func TestCorrectionQuantizationError(t *testing.T) {
	// for every reachable request the achieved rate must be within one
	// period-rounding step of the requested one
	for _, ppb := range []int64{1, 7, 13, 100, 999, 5000, 123456, 1000000} {
		st := CorrectionFor(ppb, 8)
		extra := int64(st.CorrectionIncrement) - int64(st.BaseIncrement)
		achieved := float64(extra) * 1e9 / (float64(st.CorrectionPeriod) * float64(st.BaseIncrement))
		// rounding the period down by one cycle bounds the error
		maxErr := achieved / float64(st.CorrectionPeriod)
		require.InDelta(t, float64(ppb), achieved, maxErr+1, "ppb=%d state=%+v", ppb, st)
	}
}

func TestAdjustFrequencyDriftRate(t *testing.T) {
	engine, sim, _ := newTestEngine(t, Config{})
	require.NoError(t, engine.AdjustFrequency(1000))

	start, err := engine.Time()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		sim.Advance(time.Second)
		engine.Poll()
	}
	end, err := engine.Time()
	require.NoError(t, err)

	// +1000 ppb over 10 seconds of oscillator time is 10µs, and with a
	// 125MHz clock the chosen pair expresses it exactly
	drift := end.UnixNano() - start.UnixNano() - 10*1000000000
	require.InDelta(t, 10000, drift, 8)
}

func TestAdjustFrequencyNegativeDrift(t *testing.T) {
	engine, sim, _ := newTestEngine(t, Config{})
	require.NoError(t, engine.AdjustFrequency(-1000))

	start, err := engine.Time()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		sim.Advance(time.Second)
		engine.Poll()
	}
	end, err := engine.Time()
	require.NoError(t, err)

	drift := end.UnixNano() - start.UnixNano() - 10*1000000000
	require.InDelta(t, -10000, drift, 8)
}

func TestAdjustFrequencyZeroRestoresNominal(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	nominal := engine.Correction()

	require.NoError(t, engine.AdjustFrequency(1000))
	require.NotEqual(t, nominal, engine.Correction())

	require.NoError(t, engine.AdjustFrequency(0))
	require.Equal(t, nominal, engine.Correction())
}
