// This file is part of xqemu.
//
// xqemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xqemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with xqemu.  If not, see <https://www.gnu.org/licenses/>.

// Package dsp provides a RAM-backed stand-in for the DSP56362 cores inside
// the audio processor. It stores the X, Y and P memory spaces and records
// execution control calls, but does not execute DSP instructions. An
// instruction-level core can replace it behind the bus.DSP interface without
// the device emulation noticing.
package dsp

import (
	"github.com/b438-dev/xqemu/hardware/bus"
	"github.com/b438-dev/xqemu/logger"
)

// Core is a memory-only implementation of the bus.DSP interface.
type Core struct {
	name string

	xmem []uint32
	ymem []uint32
	pmem []uint32

	// execution control bookkeeping. the stand-in core runs no instructions
	// but the device and its tests want to observe the control flow
	running     bool
	FrameCount  int
	CyclesAsked int
	ResetCount  int
	BootCount   int
}

// NewCore is the preferred method of initialisation for the Core type. The
// memory space sizes are in words and differ between the GP and EP
// instantiations of the hardware.
func NewCore(name string, xSize int, ySize int, pSize int) *Core {
	return &Core{
		name: name,
		xmem: make([]uint32, xSize),
		ymem: make([]uint32, ySize),
		pmem: make([]uint32, pSize),
	}
}

func (c *Core) space(space bus.MemorySpace) []uint32 {
	switch space {
	case bus.SpaceX:
		return c.xmem
	case bus.SpaceY:
		return c.ymem
	case bus.SpaceP:
		return c.pmem
	}
	return nil
}

// ReadMemory implements the bus.DSP interface. Reads outside a memory space
// return zero.
func (c *Core) ReadMemory(space bus.MemorySpace, addr uint32) uint32 {
	m := c.space(space)
	if m == nil || addr >= uint32(len(m)) {
		return 0
	}
	return m[addr]
}

// WriteMemory implements the bus.DSP interface. Writes outside a memory
// space are ignored.
func (c *Core) WriteMemory(space bus.MemorySpace, addr uint32, value uint32) {
	m := c.space(space)
	if m == nil || addr >= uint32(len(m)) {
		return
	}
	m[addr] = value
}

// Reset implements the bus.DSP interface.
func (c *Core) Reset() {
	c.running = false
	c.ResetCount++
	logger.Logf("dsp", "%s: reset", c.name)
}

// Bootstrap implements the bus.DSP interface.
func (c *Core) Bootstrap() {
	c.running = true
	c.BootCount++
	logger.Logf("dsp", "%s: bootstrap", c.name)
}

// StartFrame implements the bus.DSP interface.
func (c *Core) StartFrame() {
	c.FrameCount++
}

// Run implements the bus.DSP interface.
func (c *Core) Run(maxCycles int) {
	c.CyclesAsked += maxCycles
}

// Running returns whether the core has been bootstrapped and not since been
// reset.
func (c *Core) Running() bool {
	return c.running
}
