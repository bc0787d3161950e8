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

package servo

import (
	"math"
	"time"
)

// PiConfig is an integral servo config
type PiConfig struct {
	Kp float64
	Ki float64
	// MaxPPB clamps the output to what the clock hardware can slew
	MaxPPB float64
	// StepThreshold is the offset beyond which the clock should be stepped
	// rather than slewed. Zero disables stepping after the first sample.
	StepThreshold time.Duration
	// FirstStepThreshold applies to the very first measured offset only
	FirstStepThreshold time.Duration
}

// DefaultPiConfig generates sane defaults for a once-a-second sync loop
func DefaultPiConfig() PiConfig {
	return PiConfig{
		Kp:                 0.7,
		Ki:                 0.3,
		MaxPPB:             500000,
		StepThreshold:      0,
		FirstStepThreshold: 20 * time.Millisecond,
	}
}

// Pi is an integral servo
type Pi struct {
	cfg       PiConfig
	state     State
	drift     float64
	count     int
	lastLocal time.Time
}

// NewPi creates a servo with the given config
func NewPi(cfg PiConfig) *Pi {
	return &Pi{cfg: cfg}
}

// State returns the current servo state
func (s *Pi) State() State {
	return s.state
}

// SetLastFreq seeds the integral term, for example from a saved correction
func (s *Pi) SetLastFreq(ppb float64) {
	s.drift = ppb
}

// Reset puts the servo back into the sample-collection state
func (s *Pi) Reset() {
	s.state = StateInit
	s.count = 0
}

// Sample feeds one measured offset (reference minus clock, so positive
// means our clock is behind) taken at local time local, and returns the
// frequency adjustment to apply in PPB together with the servo state. When
// the state is StateJump the caller should step the clock by the offset
// and keep the previous frequency.
func (s *Pi) Sample(offset time.Duration, local time.Time) (float64, State) {
	if s.count == 0 {
		s.count++
		s.lastLocal = local
		s.state = StateInit
		if s.cfg.FirstStepThreshold > 0 && absDuration(offset) > s.cfg.FirstStepThreshold {
			s.state = StateJump
		}
		return s.drift, s.state
	}

	if s.cfg.StepThreshold > 0 && absDuration(offset) > s.cfg.StepThreshold {
		s.state = StateJump
		s.count = 1
		s.lastLocal = local
		return s.drift, s.state
	}

	dt := local.Sub(s.lastLocal).Seconds()
	if dt <= 0 {
		dt = 1
	}
	s.lastLocal = local
	s.count++

	off := float64(offset.Nanoseconds())
	s.drift = clamp(s.drift+s.cfg.Ki*off*dt, s.cfg.MaxPPB)
	ppb := clamp(s.cfg.Kp*off+s.drift, s.cfg.MaxPPB)
	s.state = StateLocked
	return ppb, s.state
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
