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

package cmd

import (
	log "github.com/sirupsen/logrus"

	"github.com/opennic/time/tsu"
)

// registerWindowSize covers the timer block including all compare channels
const registerWindowSize = 0x100

// newEngine builds a clock engine on the register backend selected by the
// persistent flags, plus a cleanup to run when the command is done.
func newEngine(onPulse func()) (*tsu.Engine, func()) {
	var regs tsu.Registers
	cleanup := func() {}
	if rootDeviceFlag != "" {
		window, err := tsu.OpenDevMem(rootDeviceFlag, registerWindowSize)
		if err != nil {
			log.Fatal(err)
		}
		mmio := tsu.NewMMIO(window, 0)
		mmio.EnableTimer(true)
		regs = mmio
		cleanup = func() {
			window.Close()
		}
	} else {
		log.Debug("no device given, running against a simulated unit")
		regs = tsu.NewSimulator(rootClockRateFlag, 0)
	}
	engine, err := tsu.New(regs, tsu.Config{
		ClockRate: rootClockRateFlag,
		OnPulse:   onPulse,
	})
	if err != nil {
		cleanup()
		log.Fatal(err)
	}
	return engine, cleanup
}
