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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/opennic/time/tsu"
	"github.com/opennic/time/tsud"
)

// registerWindowSize covers the timer block including all compare channels
const registerWindowSize = 0x100

func main() {
	var (
		cfg     = tsud.DefaultConfig()
		cfgPath string
		device  string
		sim     bool
		verbose bool
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "tsud: time stamping unit sync daemon\n\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.StringVar(&device, "device", "", "UIO device exposing the TSU register window")
	flag.BoolVar(&sim, "sim", false, "run against a simulated unit instead of hardware")
	flag.DurationVar(&cfg.Interval, "i", cfg.Interval, "interval at which we measure offset and steer the clock")
	flag.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "interval of wrap-detection housekeeping, must be below half the counter wrap period")
	flag.StringVar(&cfg.ListenAddr, "listen", "", "address to serve prometheus metrics on, empty disables")
	flag.BoolVar(&cfg.PPS, "pps", false, "arm the free-running 1Hz output on start")
	flag.StringVar(&cfgPath, "cfg", "", "path to config")
	flag.BoolVar(&verbose, "verbose", false, "verbose logging")
	flag.Parse()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if cfgPath != "" {
		log.Warningf("using config from %s, flag values are ignored", cfgPath)
		var err error
		cfg, err = tsud.ReadConfig(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	var regs tsu.Registers
	switch {
	case sim:
		regs = tsu.NewSimulator(cfg.ClockRate, 0)
		log.Warning("running against a simulated unit, the clock will not advance")
	case device != "":
		window, err := tsu.OpenDevMem(device, registerWindowSize)
		if err != nil {
			log.Fatal(err)
		}
		defer window.Close()
		mmio := tsu.NewMMIO(window, 0)
		mmio.EnableTimer(true)
		defer mmio.EnableTimer(false)
		regs = mmio
	default:
		log.Fatal("either -device or -sim must be given")
	}

	daemon, err := tsud.New(cfg, regs)
	if err != nil {
		log.Fatal(err)
	}
	defer daemon.Engine().Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	err = daemon.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
	log.Infof("shutting down after %v", time.Since(start).Round(time.Second))
}
