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

// Package tsud is a daemon that keeps a NIC time stamping unit healthy and
// synchronized: it runs the wrap-detection housekeeping the clock requires,
// steers the clock frequency against the system clock with a PI servo, and
// exports metrics.
package tsud

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/opennic/time/servo"
)

// Config represents configuration we expect to read from file
type Config struct {
	Interval     time.Duration // how often we measure offset and steer the clock
	PollInterval time.Duration // how often we run wrap-detection housekeeping
	ListenAddr   string        // address for the metrics exporter, empty disables it
	ClockRate    uint32        // TSU input clock in Hz
	Channel      int           // compare channel wired to the pulse pin
	PPS          bool          // arm the free-running 1 Hz output on start
	Servo        servo.PiConfig
}

// DefaultConfig returns the config tsud runs with when no file is given
func DefaultConfig() *Config {
	return &Config{
		Interval:     time.Second,
		PollInterval: 500 * time.Millisecond,
		ClockRate:    125000000,
		Servo:        servo.DefaultPiConfig(),
	}
}

// EvalAndValidate makes sure config is valid
func (c *Config) EvalAndValidate(wrapPeriod time.Duration) error {
	if c.Interval <= 0 {
		return fmt.Errorf("bad config: 'interval' must be >0")
	}
	if c.Interval > time.Minute {
		return fmt.Errorf("bad config: 'interval' is over a minute")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("bad config: 'pollinterval' must be >0")
	}
	// the whole wrap-tracking clock stands on this
	if c.PollInterval > wrapPeriod/2 {
		return fmt.Errorf("bad config: 'pollinterval' %v exceeds half the counter wrap period %v", c.PollInterval, wrapPeriod)
	}
	if c.ClockRate == 0 {
		return fmt.Errorf("bad config: 'clockrate' must be set")
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	err = yaml.UnmarshalStrict(data, c)
	return c, err
}
