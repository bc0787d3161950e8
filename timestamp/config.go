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

// Package timestamp holds the packet timestamping filter configuration of
// the NIC time stamping unit.
package timestamp

import (
	"errors"
	"fmt"
)

// TXType selects transmit timestamping, numbered as in
// include/uapi/linux/net_tstamp.h
type TXType int32

// Supported TX timestamping types
const (
	TXOff TXType = 0
	TXOn  TXType = 1
	// TXOneStepSync is defined for completeness; the unit cannot rewrite
	// packets on the fly and never accepts it
	TXOneStepSync TXType = 2
)

func (t TXType) String() string {
	switch t {
	case TXOff:
		return "off"
	case TXOn:
		return "on"
	case TXOneStepSync:
		return "onestep-sync"
	}
	return fmt.Sprintf("unknown (%d)", int32(t))
}

// RXFilter selects which received packets get timestamps, numbered as in
// include/uapi/linux/net_tstamp.h
type RXFilter int32

// RX filters callers commonly ask for
const (
	RXFilterNone         RXFilter = 0
	RXFilterAll          RXFilter = 1
	RXFilterPTPv2L4Event RXFilter = 3
	RXFilterPTPv2L2Event RXFilter = 6
	RXFilterPTPv2Event   RXFilter = 12
)

func (f RXFilter) String() string {
	switch f {
	case RXFilterNone:
		return "none"
	case RXFilterAll:
		return "all"
	case RXFilterPTPv2L4Event:
		return "ptpv2-l4-event"
	case RXFilterPTPv2L2Event:
		return "ptpv2-l2-event"
	case RXFilterPTPv2Event:
		return "ptpv2-event"
	}
	return fmt.Sprintf("unknown (%d)", int32(f))
}

// ErrUnsupportedTXType is returned for TX modes the unit cannot do
var ErrUnsupportedTXType = errors.New("unsupported tx timestamping type")

// Config is the timestamping filter state of one port.
type Config struct {
	TXType   TXType
	RXFilter RXFilter
}

// Normalize validates a requested configuration and widens it to what the
// hardware will actually do: the unit timestamps either no receive traffic
// or all of it, so any narrower RX filter is upgraded to RXFilterAll.
func (c Config) Normalize() (Config, error) {
	switch c.TXType {
	case TXOff, TXOn:
	default:
		return c, fmt.Errorf("%w: %s", ErrUnsupportedTXType, c.TXType)
	}
	if c.RXFilter != RXFilterNone {
		c.RXFilter = RXFilterAll
	}
	return c, nil
}
