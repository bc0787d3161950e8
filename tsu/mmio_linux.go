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

//go:build linux

package tsu

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMem is a MemIO backed by a mmap-ed register window, typically a UIO
// device exposing the TSU timer block.
type DevMem struct {
	f   *os.File
	mem []byte
}

// OpenDevMem maps size bytes of the register window from the given device.
func OpenDevMem(path string, size int) (*DevMem, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening register window %q: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping register window %q: %w", path, err)
	}
	return &DevMem{f: f, mem: mem}, nil
}

// Read32 performs a single 32-bit register read.
func (d *DevMem) Read32(offset uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&d.mem[offset])))
}

// Write32 performs a single 32-bit register write.
func (d *DevMem) Write32(offset uint32, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&d.mem[offset])), value)
}

// Close unmaps the window and closes the device.
func (d *DevMem) Close() error {
	if err := unix.Munmap(d.mem); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
