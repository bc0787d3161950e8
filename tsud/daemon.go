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

package tsud

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opennic/time/servo"
	"github.com/opennic/time/tsu"
)

// Daemon owns a clock engine and keeps it synchronized to the system clock
type Daemon struct {
	cfg    *Config
	engine *tsu.Engine
	pi     *servo.Pi
	stats  *Stats
}

// New builds the engine on the given register backend and wires pulse
// notifications into the daemon stats
func New(cfg *Config, regs tsu.Registers) (*Daemon, error) {
	d := &Daemon{
		cfg:   cfg,
		pi:    servo.NewPi(cfg.Servo),
		stats: NewStats(),
	}
	engine, err := tsu.New(regs, tsu.Config{
		ClockRate: cfg.ClockRate,
		Channel:   cfg.Channel,
		OnPulse:   d.stats.ObservePulse,
	})
	if err != nil {
		return nil, fmt.Errorf("creating clock engine: %w", err)
	}
	if err := cfg.EvalAndValidate(engine.WrapPeriod()); err != nil {
		engine.Close()
		return nil, err
	}
	d.engine = engine
	return d, nil
}

// Engine exposes the clock engine, e.g. for the NIC interrupt dispatch path
func (d *Daemon) Engine() *tsu.Engine {
	return d.engine
}

// Stats exposes the daemon counters
func (d *Daemon) Stats() *Stats {
	return d.stats
}

// Run blocks until ctx is canceled or a component fails
func (d *Daemon) Run(ctx context.Context) error {
	if d.cfg.PPS {
		if err := d.engine.EnablePPS(true); err != nil {
			return fmt.Errorf("arming PPS output: %w", err)
		}
		defer d.engine.DisableOutput()
	}

	eg, ctx := errgroup.WithContext(ctx)

	// wrap-detection housekeeping; the engine loses time if this stops
	eg.Go(func() error {
		ticker := time.NewTicker(d.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				d.engine.Poll()
			}
		}
	})

	eg.Go(func() error {
		ticker := time.NewTicker(d.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := d.SyncOnce(); err != nil {
					log.Errorf("sync: %v", err)
				}
			}
		}
	})

	if d.cfg.ListenAddr != "" {
		exporter := NewExporter(d.cfg.ListenAddr, d.stats)
		eg.Go(exporter.Serve)
	}

	return eg.Wait()
}

// SyncOnce measures the offset between the system clock and the engine
// clock, feeds it to the servo and applies the verdict
func (d *Daemon) SyncOnce() error {
	engineTime, err := d.engine.Time()
	if errors.Is(err, tsu.ErrClockOff) {
		log.Warning("hardware clock is gated off, skipping sync cycle")
		return nil
	}
	if err != nil {
		return err
	}
	sysTime := time.Now()
	offset := sysTime.Sub(engineTime)

	ppb, state := d.pi.Sample(offset, sysTime)
	switch state {
	case servo.StateJump:
		if err := d.engine.SetTime(time.Now()); err != nil {
			return fmt.Errorf("stepping clock: %w", err)
		}
		d.stats.ObserveStep()
	case servo.StateLocked:
		if err := d.engine.AdjustFrequency(int64(ppb)); err != nil {
			return fmt.Errorf("adjusting frequency: %w", err)
		}
	}
	d.stats.ObserveOffset(offset, ppb, state)
	log.Debugf("offset %v, freq %+.0f ppb, servo %s", offset, ppb, state)
	return nil
}
