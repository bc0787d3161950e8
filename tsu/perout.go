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
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// PeroutRequest asks for a periodic output signal on a compare channel,
// starting at an absolute instant on the engine's clock.
type PeroutRequest struct {
	Channel int
	Start   time.Time
	Period  time.Duration
	// Flags is reserved and must be zero.
	Flags uint32
}

// EnablePPS arms or disarms the free-running 1 Hz output. The first event
// lands on the second-after-next boundary: the remainder of the current
// second may be nearly gone by the time the compare register write lands,
// so targeting the next boundary could miss it entirely.
func (e *Engine) EnablePPS(on bool) error {
	if !on {
		e.DisableOutput()
		return nil
	}
	e.clkMu.Lock()
	defer e.clkMu.Unlock()
	if !e.clkOn {
		return ErrClockOff
	}
	e.mu.Lock()
	e.warnIfNoPulseSink()
	if e.out.enabled && e.out.mode == outputPPS {
		e.mu.Unlock()
		return nil
	}
	ns := e.tc.read()
	raw := e.tc.lastCycle
	toBoundary := uint32(nsPerSec - ns%nsPerSec)
	first := (raw + toBoundary + nsPerSec) & e.mask
	e.regs.ClearChannelEvent(e.cfg.Channel)
	e.regs.SetCompare(e.cfg.Channel, first)
	e.regs.SetChannelMode(e.cfg.Channel, ChannelToggle)
	// stage the second target so the reload handler never computes the
	// very first reload under interrupt pressure
	oldStop := e.out.stop
	e.out = outputState{
		mode:    outputPPS,
		enabled: true,
		reload:  nsPerSec,
		next:    (first + nsPerSec) & e.mask,
	}
	e.outSeq++
	e.mu.Unlock()
	if oldStop != nil {
		oldStop()
	}
	return nil
}

// EnablePerout programs a periodic output with a caller-specified start
// time and period. Start times beyond the comparator's range are staged on
// a software timer that programs the channel once the target is
// representable.
func (e *Engine) EnablePerout(req PeroutRequest) error {
	if req.Flags != 0 {
		return ErrUnsupportedFlags
	}
	if req.Channel != e.cfg.Channel {
		return ErrWrongChannel
	}
	if req.Period <= 0 {
		return fmt.Errorf("period %v is not positive", req.Period)
	}
	period := uint64(req.Period.Nanoseconds())
	// the output toggles twice per period, so the reload value is half the
	// period and must fit the counter; that caps the period at two wraps
	if period > 2*e.wrap {
		return ErrPeriodTooLong
	}
	reload := uint32(period / 2)

	e.clkMu.Lock()
	defer e.clkMu.Unlock()
	if !e.clkOn {
		return ErrClockOff
	}

	e.mu.Lock()
	e.warnIfNoPulseSink()
	now := e.tc.read()
	start := uint64(req.Start.UnixNano())
	if start < now+uint64(startMargin.Nanoseconds()) {
		e.mu.Unlock()
		return ErrStartTooSoon
	}
	delta := start - now
	oldStop := e.out.stop
	if delta <= e.wrap {
		e.outSeq++
		e.out.stop = nil
		err := e.programPeroutLocked(start, reload)
		e.mu.Unlock()
		if oldStop != nil {
			oldStop()
		}
		return err
	}
	// the comparator cannot hold a delta beyond the counter width; run a
	// one-shot timer that programs the channel half a wrap before the
	// start instant, when the target has come into range. The sequence
	// number ties the callback to this request: a callback from a request
	// since superseded would otherwise arm the channel for the old start.
	e.outSeq++
	seq := e.outSeq
	e.out = outputState{
		mode:   outputPerout,
		reload: reload,
		stop: e.timers.Once(time.Duration(delta-e.wrap/2), func() {
			e.stagePerout(seq, start, reload)
		}),
	}
	e.mu.Unlock()
	if oldStop != nil {
		oldStop()
	}
	return nil
}

// stagePerout is the deferred half of the long-range path.
func (e *Engine) stagePerout(seq uint64, start uint64, reload uint32) {
	e.mu.Lock()
	if seq != e.outSeq || e.out.mode != outputPerout || e.out.enabled {
		// disabled, reprogrammed or superseded while the timer was pending
		e.mu.Unlock()
		return
	}
	err := e.programPeroutLocked(start, reload)
	e.mu.Unlock()
	if err != nil {
		log.Errorf("programming deferred periodic output: %v", err)
	}
}

// programPeroutLocked arms the channel for a start instant that is within
// counter range. Caller holds mu.
func (e *Engine) programPeroutLocked(start uint64, reload uint32) error {
	now := e.tc.read()
	raw := e.tc.lastCycle
	if start < now+uint64(startMargin.Nanoseconds()) {
		return ErrStartTooSoon
	}
	delta := start - now
	if delta > e.wrap {
		// truncating would alias the compare value to start modulo the
		// counter width
		return fmt.Errorf("start %s ahead, beyond comparator range", time.Duration(delta))
	}
	compare := (raw + uint32(delta)) & e.mask
	e.regs.ClearChannelEvent(e.cfg.Channel)
	e.regs.SetCompare(e.cfg.Channel, compare)
	e.regs.SetChannelMode(e.cfg.Channel, ChannelToggle)
	e.out.mode = outputPerout
	e.out.enabled = true
	e.out.reload = reload
	e.out.next = (compare + reload) & e.mask
	return nil
}

// DisableOutput quiesces the pulse channel and cancels any staged
// programming. Safe to call at any time, in any state.
func (e *Engine) DisableOutput() {
	e.mu.Lock()
	stop := e.out.stop
	e.out = outputState{}
	e.outSeq++
	e.regs.SetChannelMode(e.cfg.Channel, ChannelDisabled)
	e.mu.Unlock()
	// the timer callback takes mu, so waiting for it must happen with the
	// lock released
	if stop != nil {
		stop()
	}
}

// HandleInterrupt services a compare-match event: it rewrites the compare
// register with the staged value, acknowledges the flag and stages the
// following target. The return value tells a shared interrupt line whether
// the event belonged to this unit.
func (e *Engine) HandleInterrupt() bool {
	e.mu.Lock()
	ch := e.cfg.Channel
	if !e.out.enabled || !e.regs.ChannelEventPending(ch) {
		e.mu.Unlock()
		return false
	}
	e.regs.SetCompare(ch, e.out.next)
	// the flag is write-1-to-clear and a new match may set it again while
	// we acknowledge, so verify after each clear
	acked := false
	for i := 0; i < ackRetryLimit; i++ {
		e.regs.ClearChannelEvent(ch)
		if !e.regs.ChannelEventPending(ch) {
			acked = true
			break
		}
	}
	if !acked {
		log.Warningf("channel %d event flag would not clear after %d attempts", ch, ackRetryLimit)
	}
	e.out.next = (e.out.next + e.out.reload) & e.mask
	onPulse := e.cfg.OnPulse
	e.mu.Unlock()
	if onPulse != nil {
		onPulse()
	}
	return true
}

// warnIfNoPulseSink logs, once, that output events have nowhere to go.
// Caller holds mu.
func (e *Engine) warnIfNoPulseSink() {
	if e.cfg.OnPulse == nil && !e.warnedNoSink {
		log.Warning("no pulse subscriber attached, periodic output events will not be delivered")
		e.warnedNoSink = true
	}
}
