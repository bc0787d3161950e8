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
	"sync"
	"time"
)

// Timers is the deferred-execution capability the engine needs for the
// long-range periodic output path. The engine never creates goroutines of
// its own beyond what an implementation of this interface does.
type Timers interface {
	// Once runs fn exactly once after d. The returned stop function
	// cancels the timer; if fn is already running, stop blocks until it
	// returns. stop is safe to call more than once.
	Once(d time.Duration, fn func()) (stop func())
}

// SystemTimers implements Timers on the Go runtime timer.
type SystemTimers struct{}

// Once implements Timers.
func (SystemTimers) Once(d time.Duration, fn func()) func() {
	done := make(chan struct{})
	t := time.AfterFunc(d, func() {
		defer close(done)
		fn()
	})
	var once sync.Once
	return func() {
		once.Do(func() {
			if t.Stop() {
				// fn never ran and never will
				close(done)
				return
			}
			<-done
		})
	}
}
