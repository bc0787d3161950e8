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

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opennic/time/tsu"
)

// flags
var freqPPBFlag int64

var freqCmd = &cobra.Command{
	Use:   "freq",
	Short: "Show the correction increment/period pair the unit would use for a frequency offset",
	Run:   runFreqCmd,
}

func init() {
	RootCmd.AddCommand(freqCmd)
	freqCmd.Flags().Int64VarP(&freqPPBFlag, "ppb", "p", 0, "requested frequency offset in parts per billion")
}

func runFreqCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()

	base := uint8(1000000000 / rootClockRateFlag)
	st := tsu.CorrectionFor(freqPPBFlag, base)
	fmt.Printf("base increment:       %dns\n", st.BaseIncrement)
	fmt.Printf("correction increment: %dns\n", st.CorrectionIncrement)
	fmt.Printf("correction period:    %d cycles\n", st.CorrectionPeriod)
	if freqPPBFlag == 0 || st.CorrectionPeriod == 0 {
		return
	}

	// achieved rate vs requested, to show the quantization error
	extra := int64(st.CorrectionIncrement) - int64(st.BaseIncrement)
	achieved := float64(extra) * 1e9 / (float64(st.CorrectionPeriod) * float64(st.BaseIncrement))
	quant := achieved - float64(freqPPBFlag)
	line := fmt.Sprintf("achieved:             %+.3f ppb (error %+.3f ppb)", achieved, quant)
	if quant == 0 {
		color.Green(line)
	} else {
		color.Yellow(line)
	}
	log.Debugf("requested %+d ppb with %dns base increment", freqPPBFlag, base)
}
