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

// Package bus defines the interfaces between the device emulation and its
// collaborators: the guest address space, the host interrupt line, the
// frame timer and the DSP cores. The emulation packages never reach outside
// these interfaces, which means a device can be instanced against test
// doubles as easily as against the real host machinery.
package bus

import "time"

// Memory is the interface to the guest address space. Addresses are guest
// physical addresses.
//
// Implementations are expected to silently ignore accesses beyond Size().
// the device emulation performs its own bounds analysis where an
// out-of-bounds access is meaningful (see the dma package).
type Memory interface {
	// ReadBytes fills p with guest memory starting at addr
	ReadBytes(addr uint32, p []byte)

	// WriteBytes copies p into guest memory starting at addr
	WriteBytes(addr uint32, p []byte)

	// MarkDirty records that the byte range has been modified by the
	// device. used by hosts that track modified guest pages
	MarkDirty(addr uint32, length uint32)

	// Size returns the extent of the guest memory region in bytes
	Size() uint32
}

// InterruptLine is the device's interrupt pin. Assert and Deassert are
// level-triggered and idempotent.
type InterruptLine interface {
	Assert()
	Deassert()
}

// FrameTimer is the timer facility the device schedules its frame tick on.
//
// Arm schedules onFire to be called once, delay from now. Re-arming before
// the timer fires replaces the previous schedule. Disarm cancels any pending
// fire but never interrupts a callback already in progress.
type FrameTimer interface {
	Arm(delay time.Duration, onFire func())
	Disarm()

	// Now returns the virtual clock in nanoseconds
	Now() int64
}

// MemorySpace identifies one of the DSP's internal memory spaces.
type MemorySpace byte

// List of valid MemorySpace values. The names mirror the DSP56k convention
// used by the hardware documentation.
const (
	SpaceX MemorySpace = 'X'
	SpaceY MemorySpace = 'Y'
	SpaceP MemorySpace = 'P'
)

// DSP is the interface to a DSP core. The instruction-level execution engine
// is outside the scope of this repository; the device emulation only needs
// memory access and coarse execution control.
type DSP interface {
	ReadMemory(space MemorySpace, addr uint32) uint32
	WriteMemory(space MemorySpace, addr uint32, value uint32)

	// Reset holds the core in reset, clearing any execution state
	Reset()

	// Bootstrap reloads the core's bootstrap program and prepares it for
	// execution. called on the rising edge of the reset register
	Bootstrap()

	// StartFrame signals the beginning of a hardware frame
	StartFrame()

	// Run executes at most maxCycles DSP cycles
	Run(maxCycles int)
}
