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

// Package servo computes frequency corrections that discipline the NIC
// time stamping unit against a reference clock.
package servo

// State tells the caller what to do with a servo output.
type State uint8

// All the states of servo
const (
	// StateInit means the servo is still collecting samples, apply nothing
	StateInit State = 0
	// StateJump means the offset is too large to slew, step the clock
	StateJump State = 1
	// StateLocked means the returned frequency adjustment should be applied
	StateLocked State = 2
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateJump:
		return "JUMP"
	case StateLocked:
		return "LOCKED"
	}
	return "UNSUPPORTED"
}
