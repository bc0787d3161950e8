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
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCmd is the main entry point of the tsuctl CLI
var RootCmd = &cobra.Command{
	Use:   "tsuctl",
	Short: "Inspect and exercise the NIC time stamping unit clock engine",
}

// flags
var rootVerboseFlag bool
var rootClockRateFlag uint32
var rootDeviceFlag string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().Uint32Var(&rootClockRateFlag, "rate", 125000000, "TSU input clock rate in Hz")
	RootCmd.PersistentFlags().StringVarP(&rootDeviceFlag, "device", "d", "", "UIO device exposing the TSU register window; empty runs a simulated unit")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
