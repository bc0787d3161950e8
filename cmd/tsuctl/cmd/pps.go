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
	"fmt"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opennic/time/tsu"
)

// flags
var (
	ppsSecondsFlag int
	ppsPeriodFlag  time.Duration
	ppsStartFlag   time.Duration
)

var ppsCmd = &cobra.Command{
	Use:   "pps",
	Short: "Run the free-running 1Hz output on a simulated unit and print event spacing",
	Long: `Runs the free-running 1Hz output on a simulated time stamping unit and
prints when the comparator fired. Useful to sanity check reload math across
counter wraps without hardware.`,
	Run: func(_ *cobra.Command, _ []string) {
		runPulseDemo(0)
	},
}

var peroutCmd = &cobra.Command{
	Use:   "perout",
	Short: "Run a periodic output on a simulated unit and print event spacing",
	Run: func(_ *cobra.Command, _ []string) {
		if ppsPeriodFlag <= 0 {
			log.Fatal("--period must be positive")
		}
		runPulseDemo(ppsPeriodFlag)
	},
}

func init() {
	RootCmd.AddCommand(ppsCmd)
	RootCmd.AddCommand(peroutCmd)
	ppsCmd.Flags().IntVarP(&ppsSecondsFlag, "seconds", "s", 10, "how much simulated time to run")
	flags := peroutCmd.Flags()
	flags.IntVarP(&ppsSecondsFlag, "seconds", "s", 10, "how much simulated time to run")
	flags.DurationVar(&ppsPeriodFlag, "period", time.Second/2, "periodic output period")
	flags.DurationVar(&ppsStartFlag, "start", time.Second, "periodic output start offset from now")
}

func runPulseDemo(period time.Duration) {
	ConfigureVerbosity()

	sim := tsu.NewSimulator(rootClockRateFlag, 0)
	pulses := 0
	engine, err := tsu.New(sim, tsu.Config{
		ClockRate: rootClockRateFlag,
		OnPulse:   func() { pulses++ },
	})
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	if period == 0 {
		err = engine.EnablePPS(true)
	} else {
		now, _ := engine.Time()
		err = engine.EnablePerout(tsu.PeroutRequest{
			Start:  now.Add(ppsStartFlag),
			Period: period,
		})
	}
	if err != nil {
		log.Fatal(err)
	}

	// drive simulated time in housekeeping-sized steps, servicing the
	// compare interrupt as it fires
	step := 500 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < time.Duration(ppsSecondsFlag)*time.Second; elapsed += step {
		sim.Advance(step)
		engine.HandleInterrupt()
		engine.Poll()
	}

	matches := sim.Matches(0)
	for i, m := range matches {
		if i == 0 {
			fmt.Printf("match at %s\n", time.Duration(m))
			continue
		}
		fmt.Printf("match at %s, spacing %s\n", time.Duration(m), time.Duration(m-matches[i-1]))
	}
	if pulses == len(matches) {
		color.Green("%d pulses delivered", pulses)
	} else {
		color.Red("%d comparator matches but %d pulses delivered", len(matches), pulses)
	}
}
