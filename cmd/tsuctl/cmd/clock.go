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
)

// flags
var (
	setToFlag  string
	adjByFlag  time.Duration
	adjPPBFlag int64
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the clock state of the time stamping unit",
	Run:   runStatusCmd,
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Print the current time of the unit's clock",
	Run:   runTimeCmd,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the unit's clock, to the system time unless --to is given",
	Run:   runSetCmd,
}

var adjCmd = &cobra.Command{
	Use:   "adj",
	Short: "Nudge the unit's clock by an offset or frequency",
	Run:   runAdjCmd,
}

func init() {
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(timeCmd)
	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(adjCmd)
	setCmd.Flags().StringVar(&setToFlag, "to", "", "time to set, RFC3339")
	adjCmd.Flags().DurationVar(&adjByFlag, "by", 0, "offset to add to the clock")
	adjCmd.Flags().Int64Var(&adjPPBFlag, "ppb", 0, "frequency offset to program, parts per billion")
}

func runStatusCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()
	engine, cleanup := newEngine(nil)
	defer cleanup()
	defer engine.Close()

	now, err := engine.Time()
	if err != nil {
		log.Fatal(err)
	}
	st := engine.Correction()
	fmt.Printf("time:                 %s\n", now.Format(time.RFC3339Nano))
	fmt.Printf("wrap period:          %s\n", engine.WrapPeriod())
	fmt.Printf("base increment:       %dns\n", st.BaseIncrement)
	fmt.Printf("correction increment: %dns\n", st.CorrectionIncrement)
	fmt.Printf("correction period:    %d cycles\n", st.CorrectionPeriod)
	ts := engine.TimestampConfig()
	fmt.Printf("tx timestamping:      %s\n", ts.TXType)
	fmt.Printf("rx filter:            %s\n", ts.RXFilter)
	if st.CorrectionPeriod == 0 {
		color.Green("running at nominal rate")
	} else {
		color.Yellow("frequency correction active")
	}
}

func runTimeCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()
	engine, cleanup := newEngine(nil)
	defer cleanup()
	defer engine.Close()

	now, err := engine.Time()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(now.Format(time.RFC3339Nano))
}

func runSetCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()
	engine, cleanup := newEngine(nil)
	defer cleanup()
	defer engine.Close()

	target := time.Now()
	if setToFlag != "" {
		var err error
		target, err = time.Parse(time.RFC3339, setToFlag)
		if err != nil {
			log.Fatalf("parsing --to: %v", err)
		}
	}
	if err := engine.SetTime(target); err != nil {
		log.Fatal(err)
	}
	color.Green("clock set to %s", target.Format(time.RFC3339Nano))
}

func runAdjCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()
	if adjByFlag == 0 && adjPPBFlag == 0 {
		log.Fatal("nothing to do, give --by and/or --ppb")
	}
	engine, cleanup := newEngine(nil)
	defer cleanup()
	defer engine.Close()

	if adjByFlag != 0 {
		if err := engine.AdjustTime(adjByFlag); err != nil {
			log.Fatal(err)
		}
		color.Green("clock shifted by %s", adjByFlag)
	}
	if adjPPBFlag != 0 {
		if err := engine.AdjustFrequency(adjPPBFlag); err != nil {
			log.Fatal(err)
		}
		st := engine.Correction()
		color.Green("programmed %+d ppb as increment %d every %d cycles",
			adjPPBFlag, st.CorrectionIncrement, st.CorrectionPeriod)
	}
}
