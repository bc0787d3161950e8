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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemTimersFire(t *testing.T) {
	fired := make(chan struct{})
	stop := SystemTimers{}.Once(time.Millisecond, func() {
		close(fired)
	})
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
	// stop after the callback ran must not block
	stop()
}

func TestSystemTimersCancel(t *testing.T) {
	fired := make(chan struct{})
	stop := SystemTimers{}.Once(time.Hour, func() {
		close(fired)
	})
	stop()
	select {
	case <-fired:
		t.Fatal("canceled timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSystemTimersStopIdempotent(t *testing.T) {
	stop := SystemTimers{}.Once(time.Hour, func() {})
	stop()
	require.NotPanics(t, func() {
		stop()
		stop()
	})
}

func TestSystemTimersStopWaitsForCallback(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	stop := SystemTimers{}.Once(time.Millisecond, func() {
		close(entered)
		<-release
		close(done)
	})
	<-entered
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	// stop must not return while the callback is still running
	stop()
	select {
	case <-done:
	default:
		t.Fatal("stop returned before the callback finished")
	}
}
